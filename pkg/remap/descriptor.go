package remap

import (
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
)

// TypeMapper maps one internal class name to its replacement. Returning the
// input unchanged means "no rename".
type TypeMapper func(internal string) string

// Descriptor rewrites every class name inside a field descriptor.
func Descriptor(desc string, fn TypeMapper) (string, error) {
	p := newParser(desc, fn)
	if err := p.fieldType(false); err != nil {
		return desc, err
	}
	if !p.eof() {
		return desc, p.fail("trailing characters")
	}
	return p.b.String(), nil
}

// MethodDescriptor rewrites every class name inside a method descriptor.
func MethodDescriptor(desc string, fn TypeMapper) (string, error) {
	p := newParser(desc, fn)
	if err := p.expect('('); err != nil {
		return desc, err
	}
	for p.peek() != ')' {
		if p.eof() {
			return desc, p.fail("unterminated parameter list")
		}
		if err := p.fieldType(false); err != nil {
			return desc, err
		}
	}
	p.advance()
	if err := p.fieldType(true); err != nil {
		return desc, err
	}
	if !p.eof() {
		return desc, p.fail("trailing characters")
	}
	return p.b.String(), nil
}

// parser is a cursor over descriptor or signature text that copies what it
// consumes into b, substituting class names through fn.
type parser struct {
	s  string
	i  int
	fn TypeMapper
	b  strings.Builder
}

func newParser(s string, fn TypeMapper) *parser {
	p := &parser{s: s, fn: fn}
	p.b.Grow(len(s))
	return p
}

func (p *parser) eof() bool { return p.i >= len(p.s) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.s[p.i]
}

// advance copies the current byte to the output.
func (p *parser) advance() {
	p.b.WriteByte(p.s[p.i])
	p.i++
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.fail("expected '" + string(c) + "'")
	}
	p.advance()
	return nil
}

// until returns the text up to the first byte in stops without consuming the
// stop byte or copying anything to the output.
func (p *parser) until(stops string) (string, error) {
	start := p.i
	for !p.eof() && strings.IndexByte(stops, p.s[p.i]) < 0 {
		p.i++
	}
	if p.eof() {
		return "", p.fail("unexpected end")
	}
	if p.i == start {
		return "", p.fail("empty identifier")
	}
	return p.s[start:p.i], nil
}

func (p *parser) fail(msg string) error {
	return errors.Newf(errors.ErrSignature, "malformed descriptor %q at %d: %s", p.s, p.i, msg).
		WithDetail("input", p.s).
		WithDetail("offset", p.i)
}

func isPrimitive(c byte) bool {
	switch c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return true
	}
	return false
}

// fieldType consumes one descriptor type. Void is only legal as a method
// return type.
func (p *parser) fieldType(allowVoid bool) error {
	c := p.peek()
	switch {
	case isPrimitive(c), allowVoid && c == 'V':
		p.advance()
		return nil
	case c == '[':
		p.advance()
		return p.fieldType(false)
	case c == 'L':
		p.i++
		name, err := p.until(";")
		if err != nil {
			return err
		}
		p.i++
		p.b.WriteByte('L')
		p.b.WriteString(p.fn(name))
		p.b.WriteByte(';')
		return nil
	case p.eof():
		return p.fail("unexpected end")
	}
	return p.fail("unexpected character '" + string(c) + "'")
}
