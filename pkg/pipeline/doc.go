// Package pipeline threads archive entries through the relocation stages.
//
// A Processor owns one Chain, built once from Options, and applies it to
// each entry in archive order:
//
//	manifest  drop META-INF/MANIFEST.MF when configured
//	keep      drop classes the keep closure excludes
//	zap       drop classes matching a zap rule
//	misplaced apply the misplaced-entry policy
//	classes   rewrite class files and rename them after their new name
//	literals  rewrite signature strings passed to known methods
//	paths     rename resources through the rename rules
//	services  rewrite META-INF/services descriptors
//	xml       rewrite configured XML resources
//	rename    apply explicit path renames
//
// A stage returning false drops the entry and skips the rest of the chain.
// Every rename is recorded in the ledger under the entry's original name.
package pipeline
