package resources

import (
	"path"
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/beevik/etree"
)

// XMLMatcher selects the entries whose XML content is rewritten.
type XMLMatcher struct {
	globs []string
}

// NewXMLMatcher validates globs in path.Match syntax, matched against the
// full entry path.
func NewXMLMatcher(globs []string) (*XMLMatcher, error) {
	for _, g := range globs {
		if _, err := path.Match(g, ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "invalid XML resource glob %q", g).
				WithDetail("glob", g)
		}
	}
	return &XMLMatcher{globs: append([]string(nil), globs...)}, nil
}

// Match reports whether an entry is an XML resource to rewrite.
func (x *XMLMatcher) Match(name string) bool {
	if x == nil {
		return false
	}
	for _, g := range x.globs {
		if ok, _ := path.Match(g, name); ok {
			return true
		}
	}
	return false
}

// Len returns the number of globs.
func (x *XMLMatcher) Len() int {
	if x == nil {
		return 0
	}
	return len(x.globs)
}

// RewriteXML maps every attribute value and text node of an XML document.
// Only values that look like class names change; the input is returned
// untouched when nothing did.
func RewriteXML(data []byte, m Mapper) ([]byte, bool, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(data); err != nil {
		return data, false, errors.Wrap(err, errors.ErrEntryTransform, "cannot parse XML")
	}

	changed := false
	for _, el := range doc.FindElements("//*") {
		for i := range el.Attr {
			if v, ok := mapTrimmed(el.Attr[i].Value, m); ok {
				el.Attr[i].Value = v
				changed = true
			}
		}
		for _, tok := range el.Child {
			cd, ok := tok.(*etree.CharData)
			if !ok {
				continue
			}
			if v, ok := mapTrimmed(cd.Data, m); ok {
				cd.Data = v
				changed = true
			}
		}
	}
	if !changed {
		return data, false, nil
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return data, false, errors.Wrap(err, errors.ErrEntryTransform, "cannot write XML")
	}
	return out, true, nil
}

func mapTrimmed(s string, m Mapper) (string, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return s, false
	}
	mapped := m.MapValue(v)
	if mapped == v {
		return s, false
	}
	start := strings.Index(s, v)
	return s[:start] + mapped + s[start+len(v):], true
}
