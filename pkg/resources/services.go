package resources

import (
	"bytes"
	"strings"
)

// ServicesDir holds service provider descriptors, one per interface.
const ServicesDir = "META-INF/services/"

// Mapper maps a literal that may name a class. remap.Remapper implements it.
type Mapper interface {
	MapValue(value string) string
}

// IsService reports whether name is a service descriptor.
func IsService(name string) bool {
	rest, ok := strings.CutPrefix(name, ServicesDir)
	return ok && rest != "" && !strings.Contains(rest, "/")
}

// ServiceName maps the interface named by a service descriptor path.
func ServiceName(name string, m Mapper) string {
	iface := strings.TrimPrefix(name, ServicesDir)
	return ServicesDir + m.MapValue(iface)
}

// RewriteService maps every provider listed in a service descriptor.
// Comments and blank lines are kept as they are. The input is returned when
// nothing changed.
func RewriteService(data []byte, m Mapper) ([]byte, bool) {
	lines := bytes.SplitAfter(data, []byte("\n"))
	changed := false
	var out bytes.Buffer
	out.Grow(len(data))
	for _, line := range lines {
		mapped := serviceLine(string(line), m)
		if mapped != string(line) {
			changed = true
		}
		out.WriteString(mapped)
	}
	if !changed {
		return data, false
	}
	return out.Bytes(), true
}

// serviceLine maps the provider on one line, keeping surrounding space,
// the line ending and any comment.
func serviceLine(line string, m Mapper) string {
	body, comment := line, ""
	if i := strings.IndexByte(line, '#'); i >= 0 {
		body, comment = line[:i], line[i:]
	} else if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		body, comment = line[:i], line[i:]
	}

	name := strings.TrimSpace(body)
	if name == "" {
		return line
	}
	start := strings.Index(body, name)
	mapped := m.MapValue(name)
	if mapped == name {
		return line
	}
	return body[:start] + mapped + body[start+len(name):] + comment
}
