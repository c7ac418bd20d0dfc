package archive

import (
	"strings"
	"time"
)

// ClassSuffix marks compiled class entries.
const ClassSuffix = ".class"

// Entry is one archive member. Entries are mutated in place as they move
// through the pipeline.
type Entry struct {
	Name string
	Data []byte
	Time time.Time

	// SkipTransform is set when the payload must pass through structural
	// stages untouched.
	SkipTransform bool
}

// IsClass reports whether the entry holds a compiled class.
func (e *Entry) IsClass() bool {
	return strings.HasSuffix(e.Name, ClassSuffix)
}

// IsDir reports whether the entry is a directory marker.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// Clone returns a copy sharing no mutable state with e.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Data = append([]byte(nil), e.Data...)
	return &c
}
