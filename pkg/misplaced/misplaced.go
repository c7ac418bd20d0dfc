// Package misplaced decides what happens to a class whose declared name does
// not match the archive path it is stored under.
package misplaced

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
)

// Policy is the strategy applied to misplaced classes. The zero value is
// Omit.
type Policy int

const (
	// Omit drops the entry from the output.
	Omit Policy = iota
	// Fail aborts the run.
	Fail
	// Skip keeps the entry where it is, untransformed.
	Skip
	// Move transforms the entry, which relocates it to the path implied by
	// its declared name.
	Move
)

// Default is the policy used when none is configured.
const Default = Omit

var names = map[Policy]string{
	Omit: "omit",
	Fail: "fail",
	Skip: "skip",
	Move: "move",
}

func (p Policy) String() string {
	if s, ok := names[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Parse converts a strategy name, ignoring case. "fatal" is accepted for
// Fail and the empty string yields Default.
func Parse(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case "omit":
		return Omit, nil
	case "fail", "fatal":
		return Fail, nil
	case "skip":
		return Skip, nil
	case "move":
		return Move, nil
	}
	return Default, errors.Newf(errors.ErrPolicyInvalid, "unrecognized strategy name %q", s).
		WithDetail("strategy", s).
		WithDetail("valid", []string{"fail", "skip", "omit", "move"})
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Decision is the outcome for one misplaced entry.
type Decision struct {
	Keep          bool
	SkipTransform bool
}

type handler func(entry, className string) (Decision, error)

var handlers = map[Policy]handler{
	Fail: func(entry, className string) (Decision, error) {
		return Decision{}, errors.New(errors.ErrMisplacedEntry, Message(entry, className)).
			WithDetail("entry", entry).
			WithDetail("class", className)
	},
	Skip: func(string, string) (Decision, error) {
		return Decision{Keep: true, SkipTransform: true}, nil
	},
	Omit: func(string, string) (Decision, error) {
		return Decision{Keep: false}, nil
	},
	Move: func(string, string) (Decision, error) {
		return Decision{Keep: true}, nil
	},
}

// Handle applies p to a class stored at entry whose bytes declare
// className + ".class".
func (p Policy) Handle(entry, className string) (Decision, error) {
	h, ok := handlers[p]
	if !ok {
		return Decision{}, errors.Newf(errors.ErrPolicyInvalid, "unknown policy %s", p)
	}
	return h(entry, className)
}

// IsMisplaced reports whether a class declaring internal name className is
// stored at entry.
func IsMisplaced(entry, className string) bool {
	return className+".class" != entry
}

// Message describes a misplaced class.
func Message(entry, className string) string {
	return "Fully-qualified classname does not match jar entry:\n" +
		"  jar entry: " + entry + "\n" +
		"  class name: " + className + ".class"
}
