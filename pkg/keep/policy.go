package keep

import "strings"

// DefaultIgnore lists the prefixes of platform classes that are never graph
// nodes.
var DefaultIgnore = []string{"java/", "javax/"}

// Policy decides which references count as reachability edges.
type Policy struct {
	// StringLiterals follows string constants that look like a dotted class
	// name, as passed to Class.forName.
	StringLiterals bool

	// Ignore lists internal-name prefixes that are never recorded.
	Ignore []string
}

// DefaultPolicy follows every structural reference and forName-looking
// string constants, ignoring platform classes.
func DefaultPolicy() Policy {
	return Policy{
		StringLiterals: true,
		Ignore:         append([]string(nil), DefaultIgnore...),
	}
}

func (p Policy) ignored(name string) bool {
	for _, prefix := range p.Ignore {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
