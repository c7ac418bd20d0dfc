package rules

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
)

// Kind identifies what a rule does to the symbols it matches.
type Kind int

const (
	// KindRule renames matching symbols.
	KindRule Kind = iota
	// KindZap drops matching classes.
	KindZap
	// KindKeep marks matching classes as roots of the keep closure.
	KindKeep
	// KindRename moves one archive path to another.
	KindRename
)

var kindNames = map[Kind]string{
	KindRule:   "rule",
	KindZap:    "zap",
	KindKeep:   "keep",
	KindRename: "rename",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a keyword into a Kind.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == want {
			return k, nil
		}
	}
	return 0, errors.Newf(errors.ErrRuleSyntax, "unknown rule kind %q", s).
		WithDetail("kind", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Arity is the number of arguments the keyword takes.
func (k Kind) Arity() int {
	switch k {
	case KindRule, KindRename:
		return 2
	default:
		return 1
	}
}

// Rule is one loaded rule. Result is empty for zap and keep rules. Line is
// the 1-based source line, or 0 when the rule did not come from a file.
type Rule struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Result  string `json:"result,omitempty" yaml:"result,omitempty"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
}

func (r Rule) String() string {
	if r.Kind.Arity() == 2 {
		return fmt.Sprintf("%s %s %s", r.Kind, r.Pattern, r.Result)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Pattern)
}

// Validate checks the fields a rule of its kind needs.
func (r Rule) Validate() error {
	switch {
	case r.Pattern == "":
		return r.syntaxError("empty pattern")
	case r.Kind.Arity() == 2 && r.Result == "":
		return r.syntaxError("missing result")
	case r.Kind.Arity() == 1 && r.Result != "":
		return r.syntaxError("unexpected result")
	case r.Kind != KindRename && strings.Contains(r.Pattern, "/"):
		return r.syntaxError("patterns cannot contain slashes")
	}
	return nil
}

func (r Rule) syntaxError(msg string) error {
	if r.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", r.Line, msg)
	}
	return errors.Newf(errors.ErrRuleSyntax, "%s: %s", msg, r).
		WithDetail("kind", r.Kind.String()).
		WithDetail("pattern", r.Pattern).
		WithDetail("line", r.Line)
}

// Match is a successful resolution.
type Match struct {
	Rule Rule
	// Result is the expanded replacement for rename-style kinds.
	Result string
}
