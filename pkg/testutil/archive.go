// pkg/testutil/archive.go
// DEPENDENCIES: pkg/archive
// PURPOSE: Write and inspect archive fixtures on disk

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/shade/pkg/archive"
)

// CreateFile creates a file with the given content in dir, creating parent
// directories as needed. It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// ClassEntry builds an archive entry holding a class named name. build may
// add members to the class and may be nil.
func ClassEntry(name string, build func(*ClassBuilder)) *archive.Entry {
	b := NewClass(name)
	if build != nil {
		build(b)
	}
	return &archive.Entry{Name: name + ".class", Data: b.Build()}
}

// CreateArchive writes entries to dir/name and returns the path.
func CreateArchive(t *testing.T, dir, name string, entries ...*archive.Entry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := archive.Write(path, entries, nil); err != nil {
		t.Fatalf("Failed to write archive %s: %v", path, err)
	}
	return path
}

// EntryNames reads the archive at path and returns its entry names in
// order.
func EntryNames(t *testing.T, path string) []string {
	t.Helper()

	entries, err := archive.Read(path)
	if err != nil {
		t.Fatalf("Failed to read archive %s: %v", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// AssertNoFile fails the test if path exists.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s not to exist", path)
	}
}
