package core

import (
	"context"
	"time"

	"github.com/arthur-debert/shade/pkg/archive"
	"github.com/arthur-debert/shade/pkg/classfile"
	"github.com/arthur-debert/shade/pkg/keep"
	"github.com/arthur-debert/shade/pkg/logging"
)

// Dependency is a reference from one class of an archive to another.
type Dependency struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Find lists the references between the classes of an archive. References
// to classes outside the archive are left out.
func Find(ctx context.Context, path string, policy keep.Policy) ([]Dependency, error) {
	defer logging.LogDuration(time.Now(), "find")

	entries, err := archive.Read(path)
	if err != nil {
		return nil, err
	}
	g, err := keep.Build(ctx, entries, policy)
	if err != nil {
		return nil, err
	}
	edges := g.Edges()
	out := make([]Dependency, 0, len(edges))
	for _, edge := range edges {
		out = append(out, Dependency{From: edge[0], To: edge[1]})
	}
	return out, nil
}

// ClassStrings holds the string constants of one class.
type ClassStrings struct {
	Entry   string   `json:"entry" yaml:"entry"`
	Strings []string `json:"strings" yaml:"strings"`
}

// Strings lists the string constants of every class in an archive, in
// archive order. Classes without strings are left out; unreadable classes
// are logged and skipped.
func Strings(path string) ([]ClassStrings, error) {
	logger := logging.GetLogger("core.strings")

	entries, err := archive.Read(path)
	if err != nil {
		return nil, err
	}
	var out []ClassStrings
	for _, e := range entries {
		if !e.IsClass() {
			continue
		}
		strs, err := classfile.Strings(e.Data)
		if err != nil {
			logger.Warn().Err(err).Str("entry", e.Name).Msg("Unable to read class")
			continue
		}
		if len(strs) > 0 {
			out = append(out, ClassStrings{Entry: e.Name, Strings: strs})
		}
	}
	return out, nil
}
