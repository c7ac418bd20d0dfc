package keep

import (
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/shade/pkg/classfile"
	"github.com/arthur-debert/shade/pkg/remap"
	"github.com/arthur-debert/shade/pkg/wildcard"
)

// Collector records the class names referenced from one class. It satisfies
// classfile.Remapper and returns every input unchanged.
type Collector struct {
	policy Policy
	seen   map[string]struct{}
	names  []string
}

var _ classfile.Remapper = (*Collector)(nil)

// NewCollector returns an empty collector.
func NewCollector(policy Policy) *Collector {
	return &Collector{policy: policy, seen: make(map[string]struct{})}
}

// Collect walks a class file and returns its internal name and the names it
// references, in first-seen order. The class's own name is not included.
func Collect(data []byte, policy Policy) (string, []string, error) {
	c := NewCollector(policy)
	name, err := classfile.Visit(data, c)
	if err != nil {
		return "", nil, err
	}
	deps := make([]string, 0, len(c.names))
	for _, n := range c.names {
		if n != name {
			deps = append(deps, n)
		}
	}
	return name, deps, nil
}

// Names returns the recorded names in first-seen order.
func (c *Collector) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Collector) record(name string) string {
	if name == "" || c.policy.ignored(name) {
		return name
	}
	if _, ok := c.seen[name]; !ok {
		c.seen[name] = struct{}{}
		c.names = append(c.names, name)
	}
	return name
}

// MapType records a class reference.
func (c *Collector) MapType(internal string) string {
	if len(internal) > 0 && internal[0] == '[' {
		return c.MapDescriptor(internal)
	}
	return c.record(internal)
}

// MapDescriptor records the classes named in a field or method descriptor.
func (c *Collector) MapDescriptor(desc string) string {
	if desc == "" {
		return desc
	}
	if desc[0] == '(' {
		_, _ = remap.MethodDescriptor(desc, c.record)
	} else {
		_, _ = remap.Descriptor(desc, c.record)
	}
	return desc
}

// MapSignature records the classes named in a generic signature.
func (c *Collector) MapSignature(sig string, typeSig bool) string {
	_, _ = remap.Signature(sig, typeSig, c.record)
	return sig
}

// MapValue records array descriptors passed to forName and, if the policy
// allows, dotted class names.
func (c *Collector) MapValue(value string) string {
	switch {
	case remap.IsArrayForName(value):
		_, _ = remap.Descriptor(strings.ReplaceAll(value, ".", "/"), c.record)
	case c.policy.StringLiterals && isForName(value):
		c.record(strings.ReplaceAll(value, ".", "/"))
	}
	return value
}

// isForName reports whether value looks like a dotted class name: at least
// one dot, no empty segment, identifier characters only.
func isForName(value string) bool {
	if !strings.Contains(value, ".") || !utf8.ValidString(value) {
		return false
	}
	for _, seg := range strings.Split(value, ".") {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			if !wildcard.IsIdentifierPart(r) {
				return false
			}
		}
	}
	return true
}
