// Package core implements the shade commands on top of the relocation
// packages.
//
// # Process
//
// A run reads the whole input archive, then streams its entries in order
// through the pipeline and into the output writer:
//
//  1. The rules file and any [[rules]] tables are compiled into one resolver.
//  2. When keep rules exist, the reference graph of every class is built
//     concurrently; the pipeline asks for its exclusions the first time a
//     class reaches the keep stage.
//  3. Every entry goes through the pipeline. Kept entries are written under
//     their final name; the writer rejects duplicate output paths.
//  4. The output is staged in a temporary file and renamed into place only
//     after the last entry was written, so a failed run leaves no output.
//  5. In strip mode the excluded classes are removed by a second pass over
//     the written archive, using their final names from the rename ledger.
//
// Find and Strings are read-only inspections of an archive.
package core
