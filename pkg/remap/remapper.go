package remap

import (
	"strings"
	"sync"

	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/wildcard"
	"github.com/rs/zerolog"
)

// resourcePlaceholder stands in for the file name of a resource path while
// its directory is matched against the rules.
const resourcePlaceholder = "RESOURCE"

// Rules is the part of the rule resolver the remapper needs.
type Rules interface {
	// Replace returns the new internal name for name, if a rename rule
	// matches it.
	Replace(name string) (string, bool)
}

// Remapper maps symbols in each of their encodings through one rule table.
// Results are memoised; a Remapper is safe for concurrent use.
type Remapper struct {
	rules  Rules
	logger zerolog.Logger

	mu    sync.RWMutex
	types map[string]string
	paths map[string]string
}

// New creates a Remapper over rules.
func New(rules Rules) *Remapper {
	return &Remapper{
		rules:  rules,
		logger: logging.GetLogger("remap"),
		types:  make(map[string]string),
		paths:  make(map[string]string),
	}
}

// Map returns the new internal name for a class and whether it changed.
func (m *Remapper) Map(internal string) (string, bool) {
	m.mu.RLock()
	mapped, ok := m.types[internal]
	m.mu.RUnlock()
	if !ok {
		mapped = m.replace(internal)
		m.mu.Lock()
		m.types[internal] = mapped
		m.mu.Unlock()
	}
	return mapped, mapped != internal
}

// MapType maps an internal name, returning it unchanged when no rule applies.
// It has the TypeMapper shape.
func (m *Remapper) MapType(internal string) string {
	mapped, _ := m.Map(internal)
	return mapped
}

// MapDescriptor maps a field or method descriptor. Malformed descriptors are
// returned unchanged.
func (m *Remapper) MapDescriptor(desc string) string {
	if desc == "" {
		return desc
	}
	var (
		out string
		err error
	)
	if desc[0] == '(' {
		out, err = MethodDescriptor(desc, m.MapType)
	} else {
		out, err = Descriptor(desc, m.MapType)
	}
	if err != nil {
		m.logger.Debug().Err(err).Str("descriptor", desc).Msg("Leaving malformed descriptor unchanged")
		return desc
	}
	return out
}

// MapSignature maps a generic signature. Malformed signatures are logged and
// returned unchanged.
func (m *Remapper) MapSignature(sig string, typeSig bool) string {
	if sig == "" {
		return sig
	}
	out, err := Signature(sig, typeSig, m.MapType)
	if err != nil {
		m.logger.Warn().Err(err).Str("signature", sig).Msg("Leaving malformed signature unchanged")
		return sig
	}
	return out
}

// MapPath maps a resource path by matching its directory against the rules.
// The file name itself is never renamed.
func (m *Remapper) MapPath(path string) string {
	m.mu.RLock()
	mapped, ok := m.paths[path]
	m.mu.RUnlock()
	if ok {
		return mapped
	}

	var dir, file string
	if slash := strings.LastIndexByte(path, '/'); slash >= 0 {
		dir, file = path[:slash+1], path[slash+1:]
	} else {
		file = path
	}

	s := dir + resourcePlaceholder
	absolute := strings.HasPrefix(s, "/")
	if absolute {
		s = s[1:]
	}
	s = m.replace(s)
	if absolute {
		s = "/" + s
	}
	if !strings.HasSuffix(s, resourcePlaceholder) {
		return path
	}
	mapped = strings.TrimSuffix(s, resourcePlaceholder) + file

	m.mu.Lock()
	m.paths[path] = mapped
	m.mu.Unlock()
	return mapped
}

// MapValue maps a string literal that may encode a class name: a dotted
// name, a slash path, or an array-for-name literal such as
// [Lorg.example.Foo;. Anything else, including text that mixes separators
// without matching as a path, is returned unchanged.
func (m *Remapper) MapValue(value string) string {
	if IsArrayForName(value) {
		desc := strings.ReplaceAll(value, ".", "/")
		mapped := m.MapDescriptor(desc)
		if mapped == desc {
			return value
		}
		return m.changed(value, strings.ReplaceAll(mapped, "/", "."))
	}

	s := m.MapPath(value)
	if s == value {
		hasDot := strings.Contains(s, ".")
		hasSlash := strings.Contains(s, "/")
		switch {
		case hasDot && hasSlash:
		case hasDot:
			s = strings.ReplaceAll(m.replace(strings.ReplaceAll(s, ".", "/")), "/", ".")
		default:
			s = m.replace(s)
		}
	}
	if s != value {
		return m.changed(value, s)
	}
	return value
}

func (m *Remapper) changed(from, to string) string {
	m.logger.Debug().Str("from", from).Str("to", to).Msg("Changed value")
	return to
}

func (m *Remapper) replace(s string) string {
	if out, ok := m.rules.Replace(s); ok {
		return out
	}
	return s
}

// IsArrayForName reports whether s has the shape Class.forName expects for an
// array of objects, "[L" + dotted name + ";".
func IsArrayForName(s string) bool {
	if len(s) < 4 || !strings.HasPrefix(s, "[L") || !strings.HasSuffix(s, ";") {
		return false
	}
	for _, c := range s[2 : len(s)-1] {
		if c != '.' && !wildcard.IsIdentifierPart(c) {
			return false
		}
	}
	return true
}
