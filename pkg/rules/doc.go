// Package rules loads and resolves the relocation rules that drive shading.
//
// # Rule Source
//
// Rules are line oriented. Each non-blank line holds one rule: a keyword
// followed by whitespace separated arguments. Text after '#' is a comment.
//
//	rule   org.apache.commons.**  shaded.commons.@1
//	zap    org.apache.commons.logging.impl.**
//	keep   com.example.Main
//	rename org/example/libnative.so  com/example/shaded_libnative.so
//
//   - `rule` renames every symbol matching the pattern to the result template
//   - `zap` drops every class whose name matches the pattern
//   - `keep` marks roots; classes unreachable from any root are removed
//   - `rename` moves one archive path to another, literally, without wildcards
//
// Patterns for `rule`, `zap` and `keep` are written with dots and matched
// against slash separated internal names. A slash in such a pattern is an
// error. `rename` arguments are archive paths and are used verbatim.
//
// # Configuration
//
// Rules may also be declared in shade.toml:
//
//	[[rules]]
//	kind = "rule"
//	pattern = "org.apache.commons.**"
//	result = "shaded.commons.@1"
//
// # Resolution
//
// A Resolver holds one table per kind. When several rules of a kind match,
// the one with the longest literal prefix wins and declaration order breaks
// ties.
package rules
