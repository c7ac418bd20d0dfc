package wildcard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/arthur-debert/shade/pkg/errors"
)

// DefaultSeparator separates segments of internal names and archive paths.
const DefaultSeparator = '/'

// packageInfo is a legal trailing segment even though '-' makes it an
// invalid identifier.
const packageInfo = "package-info"

// Wildcard is a compiled pattern/result pair. It is immutable and safe for
// concurrent use.
type Wildcard struct {
	pattern string
	result  string
	sep     rune
	re      *regexp.Regexp
	count   int
	prefix  int
	parts   []part
}

// part is one piece of a result template: literal text or a 1-based capture
// reference.
type part struct {
	literal string
	ref     int
}

// Compile compiles a slash-separated pattern and its result template.
func Compile(pattern, result string) (*Wildcard, error) {
	return CompileSeparator(pattern, result, DefaultSeparator)
}

// CompileSeparator compiles a pattern whose segments are split by sep.
func CompileSeparator(pattern, result string, sep rune) (*Wildcard, error) {
	switch {
	case pattern == "":
		return nil, errors.New(errors.ErrPatternInvalid, "empty pattern")
	case pattern == "**":
		return nil, errors.New(errors.ErrPatternInvalid, "'**' is not a valid pattern").
			WithDetail("pattern", pattern)
	case strings.Contains(pattern, "***"):
		return nil, errors.Newf(errors.ErrPatternInvalid,
			"the sequence '***' is invalid in a pattern: %s", pattern).
			WithDetail("pattern", pattern)
	case strings.Count(pattern, "**") > 1:
		return nil, errors.Newf(errors.ErrPatternInvalid,
			"at most one '**' is allowed in a pattern: %s", pattern).
			WithDetail("pattern", pattern)
	case !validChars(pattern, sep, true):
		return nil, errors.Newf(errors.ErrPatternInvalid, "not a valid pattern: %s", pattern).
			WithDetail("pattern", pattern)
	}

	expr, count, prefix := translate(pattern, sep)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "cannot compile pattern %s", pattern)
	}

	parts, highest, err := parseResult(result)
	if err != nil {
		return nil, err
	}
	if highest > count {
		return nil, errors.Newf(errors.ErrPatternInvalid,
			"result includes impossible placeholder \"@%d\": %s", highest, result).
			WithDetail("pattern", pattern).
			WithDetail("captures", count)
	}

	return &Wildcard{
		pattern: pattern,
		result:  result,
		sep:     sep,
		re:      re,
		count:   count,
		prefix:  prefix,
		parts:   parts,
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level tables.
func MustCompile(pattern, result string) *Wildcard {
	w, err := Compile(pattern, result)
	if err != nil {
		panic(err)
	}
	return w
}

// Pattern returns the source pattern.
func (w *Wildcard) Pattern() string { return w.pattern }

// Result returns the source result template.
func (w *Wildcard) Result() string { return w.result }

// Captures returns the number of capture groups in the pattern.
func (w *Wildcard) Captures() int { return w.count }

// LiteralPrefix returns the length, in runes, of the pattern text before the
// first wildcard marker. Fully literal patterns return their whole length.
func (w *Wildcard) LiteralPrefix() int { return w.prefix }

// Matches reports whether value matches the pattern.
func (w *Wildcard) Matches(value string) bool {
	return w.match(value) != nil
}

// Replace returns the result template expanded with the captures of value.
// The second return is false when value does not match.
func (w *Wildcard) Replace(value string) (string, bool) {
	groups := w.match(value)
	if groups == nil {
		return "", false
	}
	sep := string(w.sep)
	var sb strings.Builder
	collapse := false
	for _, p := range w.parts {
		if p.ref > 0 {
			g := groups[p.ref]
			sb.WriteString(g)
			collapse = g == "" && strings.HasSuffix(sb.String(), sep)
			continue
		}
		lit := p.literal
		if collapse {
			// an empty capture between two separators leaves one
			lit = strings.TrimPrefix(lit, sep)
		}
		collapse = false
		sb.WriteString(lit)
	}
	return sb.String(), true
}

func (w *Wildcard) String() string {
	return fmt.Sprintf("Wildcard{pattern=%s, result=%s, regex=%s, captures=%d}",
		w.pattern, w.result, w.re, w.count)
}

func (w *Wildcard) match(value string) []string {
	groups := w.re.FindStringSubmatch(value)
	if groups == nil || !validChars(value, w.sep, false) || emptySegment(value, w.sep) {
		return nil
	}
	return groups
}

// emptySegment reports whether s starts with the separator or holds two in a
// row. A single trailing separator is allowed.
func emptySegment(s string, sep rune) bool {
	sp := string(sep)
	return strings.HasPrefix(s, sp) || strings.Contains(s, sp+sp)
}

// translate turns a pattern into an anchored regular expression. It returns
// the expression, the capture count and the literal prefix length.
func translate(pattern string, sep rune) (string, int, int) {
	runes := []rune(pattern)
	segment := "([^" + regexp.QuoteMeta(string(sep)) + "]+)"

	var sb strings.Builder
	sb.WriteString(`\A`)
	count := 0
	prefix := -1
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == sep && i+3 < len(runes) && runes[i+1] == '*' && runes[i+2] == '*' && runes[i+3] == sep {
			// sep**sep may also collapse to a single separator
			if prefix < 0 {
				prefix = i + 1
			}
			count++
			sb.WriteString(`(?:` + regexp.QuoteMeta(string(sep)) + `(.+?))?`)
			i += 2
			continue
		}
		if c != '*' {
			sb.WriteString(regexp.QuoteMeta(string(c)))
			continue
		}
		if prefix < 0 {
			prefix = i
		}
		count++
		if i+1 < len(runes) && runes[i+1] == '*' {
			i++
			if i == len(runes)-1 {
				sb.WriteString(`(.*)`)
			} else {
				sb.WriteString(`(.+?)`)
			}
			continue
		}
		sb.WriteString(segment)
	}
	sb.WriteString(`\z`)

	if prefix < 0 {
		prefix = len(runes)
	}
	return sb.String(), count, prefix
}

// parseResult splits a result template into literal and reference parts and
// returns the highest reference used.
func parseResult(result string) ([]part, int, error) {
	var parts []part
	var lit strings.Builder
	highest := 0

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, part{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(result); i++ {
		c := result[i]
		if c != '@' {
			lit.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(result) && result[j] >= '0' && result[j] <= '9' {
			j++
		}
		if j == i+1 {
			return nil, 0, errors.Newf(errors.ErrPatternInvalid,
				"'@' not followed by a digit in result: %s", result)
		}
		n, err := strconv.Atoi(result[i+1 : j])
		if err != nil || n == 0 {
			return nil, 0, errors.Newf(errors.ErrPatternInvalid,
				"invalid placeholder \"%s\" in result: %s", result[i:j], result)
		}
		flush()
		parts = append(parts, part{ref: n})
		if n > highest {
			highest = n
		}
		i = j - 1
	}
	flush()
	return parts, highest, nil
}

// validChars reports whether every rune of s is an identifier character,
// '-', the separator or (for patterns) '*'.
func validChars(s string, sep rune, pattern bool) bool {
	s = strings.TrimSuffix(s, packageInfo)
	for _, c := range s {
		switch {
		case c == sep, c == '-':
		case pattern && c == '*':
		case IsIdentifierPart(c):
		default:
			return false
		}
	}
	return true
}

// IsIdentifierPart reports whether c may appear inside a JVM identifier.
func IsIdentifierPart(c rune) bool {
	switch {
	case c == '_' || c == '$':
		return true
	case unicode.IsLetter(c), unicode.IsDigit(c):
		return true
	case unicode.In(c, unicode.Sc, unicode.Pc, unicode.Mn, unicode.Mc, unicode.Nl):
		return true
	}
	return false
}
