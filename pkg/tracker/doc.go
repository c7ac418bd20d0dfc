// Package tracker keeps the bookkeeping of one relocation run: which entries
// were renamed (the Ledger) and which output paths are taken (Duplicates).
//
// Both types take a single mutex per operation, so entries may be recorded
// from several goroutines as long as callers feed them in archive order when
// that order matters for duplicate detection.
package tracker
