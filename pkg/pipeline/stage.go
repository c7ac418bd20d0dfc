package pipeline

import "github.com/arthur-debert/shade/pkg/archive"

// Stage processes one entry in place. Returning false drops the entry.
type Stage interface {
	Process(e *archive.Entry) (bool, error)
}

// StageFunc adapts a function to Stage.
type StageFunc func(e *archive.Entry) (bool, error)

// Process calls f.
func (f StageFunc) Process(e *archive.Entry) (bool, error) { return f(e) }

// Chain runs stages in order, stopping at the first drop or error.
type Chain []Stage

// Process implements Stage.
func (c Chain) Process(e *archive.Entry) (bool, error) {
	for _, s := range c {
		keep, err := s.Process(e)
		if err != nil || !keep {
			return false, err
		}
	}
	return true, nil
}
