package tracker

import (
	"strings"
	"sync"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/rs/zerolog"
)

// Duplicates tracks the output paths already written.
type Duplicates struct {
	mu     sync.Mutex
	seen   map[string][]string
	roots  []string
	logger zerolog.Logger
}

// NewDuplicates returns a tracker. parallelRoots lists archive subtrees
// (for example "META-INF/versions/9/") whose entries may legitimately land
// on the same output path as an entry from a different such subtree.
func NewDuplicates(parallelRoots []string) *Duplicates {
	roots := make([]string, 0, len(parallelRoots))
	for _, r := range parallelRoots {
		r = strings.Trim(r, "/")
		if r == "" {
			continue
		}
		roots = append(roots, r+"/")
	}
	return &Duplicates{
		seen:   make(map[string][]string),
		roots:  roots,
		logger: logging.GetLogger("tracker.duplicates"),
	}
}

// Add claims final for the entry originally named original. It returns
// false without error for a repeated directory entry, which should be
// skipped, and an ErrDuplicateEntry error for any other collision not
// covered by the parallel roots.
func (d *Duplicates) Add(original, final string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, taken := d.seen[final]
	if !taken {
		d.seen[final] = []string{original}
		return true, nil
	}
	if strings.HasSuffix(final, "/") {
		return false, nil
	}
	if d.parallel(prev, original) {
		d.logger.Warn().
			Str("entry", final).
			Strs("previous", prev).
			Str("original", original).
			Msg("Keeping duplicate entry from parallel root")
		d.seen[final] = append(prev, original)
		return true, nil
	}
	return false, errors.Newf(errors.ErrDuplicateEntry, "Duplicate jar entry: %s", final).
		WithDetails(map[string]interface{}{
			"entry":  final,
			"first":  prev[0],
			"second": original,
		})
}

// Len returns the number of distinct paths claimed.
func (d *Duplicates) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *Duplicates) root(name string) string {
	for _, r := range d.roots {
		if strings.HasPrefix(name, r) {
			return r
		}
	}
	return ""
}

// parallel reports whether original sits under a parallel root that none of
// the previous claimants share, and every previous claimant has a root.
func (d *Duplicates) parallel(previous []string, original string) bool {
	root := d.root(original)
	if root == "" {
		return false
	}
	for _, p := range previous {
		if r := d.root(p); r == "" || r == root {
			return false
		}
	}
	return true
}
