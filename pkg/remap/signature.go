package remap

import "strings"

// Signature rewrites every class name inside a generic signature. With
// typeSig set the input is a field or record component type signature;
// otherwise it is a class or method signature, told apart by the parameter
// list.
func Signature(sig string, typeSig bool, fn TypeMapper) (string, error) {
	p := newParser(sig, fn)
	var err error
	if typeSig {
		err = p.javaType()
	} else {
		err = p.classOrMethod()
	}
	if err == nil && !p.eof() {
		err = p.fail("trailing characters")
	}
	if err != nil {
		return sig, err
	}
	return p.b.String(), nil
}

func (p *parser) classOrMethod() error {
	if p.peek() == '<' {
		if err := p.typeParameters(); err != nil {
			return err
		}
	}

	if p.peek() != '(' {
		// superclass then interfaces
		if err := p.classType(); err != nil {
			return err
		}
		for !p.eof() {
			if err := p.classType(); err != nil {
				return err
			}
		}
		return nil
	}

	p.advance()
	for p.peek() != ')' {
		if p.eof() {
			return p.fail("unterminated parameter list")
		}
		if err := p.javaType(); err != nil {
			return err
		}
	}
	p.advance()

	if p.peek() == 'V' {
		p.advance()
	} else if err := p.javaType(); err != nil {
		return err
	}

	for p.peek() == '^' {
		p.advance()
		if err := p.referenceType(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) typeParameters() error {
	p.advance()
	for p.peek() != '>' {
		if p.eof() {
			return p.fail("unterminated type parameters")
		}
		name, err := p.until(":")
		if err != nil {
			return err
		}
		p.b.WriteString(name)

		// class bound may be empty, interface bounds may not
		p.advance()
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			if err := p.referenceType(); err != nil {
				return err
			}
		}
		for p.peek() == ':' {
			p.advance()
			if err := p.referenceType(); err != nil {
				return err
			}
		}
	}
	p.advance()
	return nil
}

func (p *parser) javaType() error {
	if isPrimitive(p.peek()) {
		p.advance()
		return nil
	}
	return p.referenceType()
}

func (p *parser) referenceType() error {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.advance()
		name, err := p.until(";")
		if err != nil {
			return err
		}
		p.b.WriteString(name)
		p.advance()
		return nil
	case '[':
		p.advance()
		return p.javaType()
	}
	if p.eof() {
		return p.fail("unexpected end")
	}
	return p.fail("unexpected character '" + string(p.peek()) + "'")
}

// classType handles Lpkg/Outer<args>.Inner<args>; where each inner segment
// is renamed as Outer$Inner and then written relative to its renamed outer.
func (p *parser) classType() error {
	if err := p.expect('L'); err != nil {
		return err
	}
	name, err := p.until("<.;")
	if err != nil {
		return err
	}
	mapped := p.fn(name)
	p.b.WriteString(mapped)

	for {
		if p.peek() == '<' {
			if err := p.typeArguments(); err != nil {
				return err
			}
		}
		if p.peek() != '.' {
			break
		}
		p.i++
		inner, err := p.until("<.;")
		if err != nil {
			return err
		}

		name = name + "$" + inner
		outer := mapped + "$"
		mapped = p.fn(name)
		idx := strings.LastIndexByte(mapped, '$') + 1
		if strings.HasPrefix(mapped, outer) {
			idx = len(outer)
		}
		p.b.WriteByte('.')
		p.b.WriteString(mapped[idx:])
	}
	return p.expect(';')
}

func (p *parser) typeArguments() error {
	p.advance()
	if p.peek() == '>' {
		return p.fail("empty type arguments")
	}
	for p.peek() != '>' {
		if p.eof() {
			return p.fail("unterminated type arguments")
		}
		switch p.peek() {
		case '*':
			p.advance()
			continue
		case '+', '-':
			p.advance()
		}
		if err := p.referenceType(); err != nil {
			return err
		}
	}
	p.advance()
	return nil
}
