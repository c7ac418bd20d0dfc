// Package testutil provides fixtures for testing shade components.
//
// Key components:
//   - ClassBuilder and Pool: assemble small class files in memory, with
//     code, signature and annotation attributes
//   - ClassEntry, CreateArchive and EntryNames: build archives on disk and
//     read back their entry order
//
// All test data is defined inline; each test writes its archives to its
// own t.TempDir().
package testutil
