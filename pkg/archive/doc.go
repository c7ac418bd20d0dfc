// Package archive reads and writes the zip containers (jars) being
// relocated.
//
// Entries are read fully into memory in archive order. A Writer streams
// entries to a temporary file next to the destination and only renames it
// into place on Commit, so a run that fails part way never leaves a partial
// archive at the output path.
package archive
