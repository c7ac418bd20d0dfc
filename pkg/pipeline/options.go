package pipeline

import (
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/misplaced"
	"github.com/arthur-debert/shade/pkg/resources"
	"github.com/arthur-debert/shade/pkg/rules"
)

// ManifestName is the entry dropped by SkipManifest.
const ManifestName = "META-INF/MANIFEST.MF"

// DefaultSignatureMethods take a method signature string as their only
// argument.
var DefaultSignatureMethods = []string{"getImplMethodSignature"}

// KeepMode selects where classes outside the keep closure are removed.
type KeepMode int

const (
	// KeepInline drops excluded classes in the keep stage.
	KeepInline KeepMode = iota
	// KeepStrip keeps every class during the pass and removes the excluded
	// ones afterwards through Strip, using their final names.
	KeepStrip
)

var keepModeNames = map[KeepMode]string{
	KeepInline: "inline",
	KeepStrip:  "strip",
}

// String returns the configuration name of the mode.
func (m KeepMode) String() string {
	if s, ok := keepModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseKeepMode parses a mode name. The empty string means KeepInline.
func ParseKeepMode(s string) (KeepMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KeepInline, nil
	}
	for m, name := range keepModeNames {
		if name == s {
			return m, nil
		}
	}
	return KeepInline, errors.Newf(errors.ErrConfigValid, "unknown keep mode %q", s).
		WithDetail("mode", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m KeepMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *KeepMode) UnmarshalText(text []byte) error {
	parsed, err := ParseKeepMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Options configures a Processor.
type Options struct {
	Rules *rules.Resolver

	SkipManifest bool
	Misplaced    misplaced.Policy

	// SignatureMethods names the methods whose string argument is rewritten
	// as a signature. Nil uses DefaultSignatureMethods; an empty non-nil
	// slice disables the stage.
	SignatureMethods []string

	RewriteServices bool
	XMLResources    *resources.XMLMatcher

	// KeepExcludes returns the classes, as entry stems, that no keep root
	// reaches. It is called at most once, when the first class reaches the
	// keep stage. Nil disables keep handling.
	KeepExcludes func() ([]string, error)
	KeepMode     KeepMode
}

func (o Options) signatureMethods() map[string]bool {
	names := o.SignatureMethods
	if names == nil {
		names = DefaultSignatureMethods
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
