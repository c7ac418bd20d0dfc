// Package wildcard compiles symbol patterns into anchored, segment-aware
// matchers with positional captures.
//
// # Pattern Conventions
//
// A pattern is literal text split into segments by a single separator
// character ('/' for internal names and paths):
//
//   - `net/sf/cglib/Proxy` - Exact symbol match
//   - `net/sf/cglib/*` - `*` captures exactly one segment
//   - `net/sf/cglib/**` - `**` captures any run of segments, separators included
//   - `net/sf/cglib/` - A trailing separator only matches candidates ending the same way
//
// At most one `**` may appear in a pattern. A trailing `**` may capture the
// empty string. Between two separators it may also match nothing, so
// `org/**/Foo` matches `org/Foo` with an empty capture; an empty capture
// followed by a separator in the result collapses to one separator. A
// leading `**` captures at least one character.
//
// Candidates never contain empty segments: a leading separator or two
// separators in a row never match.
//
// # Results
//
// A result template is literal text with `@n` backreferences. Captures are
// numbered 1..n in the order their markers appear in the pattern, so
//
//	net/sf/cglib/*/*  ->  foo/@2/@1
//
// turns `net/sf/cglib/Bar/Baz` into `foo/Baz/Bar`. Referencing a capture the
// pattern does not have is a compile error, never a match-time failure.
//
// Candidates must consist of identifier characters, '-' and the separator.
// Anything else (whitespace, control characters, '!', '[', ';') never matches.
package wildcard
