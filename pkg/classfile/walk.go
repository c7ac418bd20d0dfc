package classfile

import "github.com/arthur-debert/shade/pkg/errors"

// refKind says how the Utf8 at a reference site is interpreted.
type refKind int

const (
	refDescriptor refKind = iota // field or method descriptor
	refSignature                 // class or method signature
	refTypeSignature             // field type signature
	refValue                     // string literal
)

// context is the structure owning an attribute table.
type context int

const (
	ctxClass context = iota
	ctxField
	ctxMethod
	ctxCode
	ctxRecord
)

// walker visits the reference sites in the bytes after the constant pool.
// Offsets passed to the callbacks index cls.tail.
type walker struct {
	cls    *Class
	onRef  func(off int, kind refKind) error
	onCode func(off, length int) error
	// onInnerName receives the offset of an InnerClasses inner_name_index
	// and the row's inner class constant.
	onInnerName func(off, inner int) error
}

func (w *walker) walk() error {
	c := &cursor{b: w.cls.tail}
	c.skip(6)
	c.skip(2 * c.u2())

	for _, ctx := range []context{ctxField, ctxMethod} {
		n := c.u2()
		for i := 0; i < n && c.err == nil; i++ {
			c.skip(4)
			if err := w.ref(c, refDescriptor); err != nil {
				return err
			}
			if err := w.attributes(c, ctx); err != nil {
				return err
			}
		}
	}
	if err := w.attributes(c, ctxClass); err != nil {
		return err
	}
	if c.err != nil {
		return c.err
	}
	if c.off != len(c.b) {
		return errors.Newf(errors.ErrClassFormat, "%d trailing bytes after class attributes", len(c.b)-c.off)
	}
	return nil
}

// ref reports the u2 at the cursor as a reference site and consumes it.
func (w *walker) ref(c *cursor, kind refKind) error {
	off := c.off
	c.u2()
	if c.err != nil {
		return c.err
	}
	if w.onRef == nil {
		return nil
	}
	return w.onRef(off, kind)
}

func (w *walker) attributes(c *cursor, ctx context) error {
	n := c.u2()
	for i := 0; i < n && c.err == nil; i++ {
		nameIdx := c.u2()
		length := int(c.u4())
		body := c.sub(length)
		if c.err != nil {
			break
		}
		name, err := w.cls.utf8(nameIdx)
		if err != nil {
			return err
		}
		if err := w.attribute(body, name, ctx); err != nil {
			return errors.Wrapf(err, errors.ErrClassFormat, "attribute %s", name)
		}
		if body.err != nil {
			return errors.Wrapf(body.err, errors.ErrClassFormat, "attribute %s", name)
		}
	}
	return c.err
}

func (w *walker) attribute(c *cursor, name string, ctx context) error {
	switch name {
	case "Signature":
		kind := refSignature
		if ctx == ctxField || ctx == ctxRecord {
			kind = refTypeSignature
		}
		return w.ref(c, kind)

	case "Code":
		if ctx != ctxMethod {
			return nil
		}
		c.skip(4)
		length := int(c.u4())
		start := c.off
		c.skip(length)
		if c.err == nil && w.onCode != nil {
			if err := w.onCode(start, length); err != nil {
				return err
			}
		}
		c.skip(8 * c.u2())
		return w.attributes(c, ctxCode)

	case "LocalVariableTable", "LocalVariableTypeTable":
		kind := refDescriptor
		if name == "LocalVariableTypeTable" {
			kind = refTypeSignature
		}
		n := c.u2()
		for i := 0; i < n && c.err == nil; i++ {
			c.skip(6)
			if err := w.ref(c, kind); err != nil {
				return err
			}
			c.skip(2)
		}

	case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
		return w.annotations(c)

	case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
		n := c.u1()
		for i := 0; i < n && c.err == nil; i++ {
			if err := w.annotations(c); err != nil {
				return err
			}
		}

	case "RuntimeVisibleTypeAnnotations", "RuntimeInvisibleTypeAnnotations":
		n := c.u2()
		for i := 0; i < n && c.err == nil; i++ {
			if err := w.typeAnnotation(c); err != nil {
				return err
			}
		}

	case "AnnotationDefault":
		return w.elementValue(c)

	case "InnerClasses":
		if ctx != ctxClass {
			return nil
		}
		n := c.u2()
		for i := 0; i < n && c.err == nil; i++ {
			inner := c.u2()
			c.skip(2)
			off := c.off
			nameIdx := c.u2()
			c.skip(2)
			if c.err == nil && nameIdx != 0 && w.onInnerName != nil {
				if err := w.onInnerName(off, inner); err != nil {
					return err
				}
			}
		}

	case "Record":
		if ctx != ctxClass {
			return nil
		}
		n := c.u2()
		for i := 0; i < n && c.err == nil; i++ {
			c.skip(2)
			if err := w.ref(c, refDescriptor); err != nil {
				return err
			}
			if err := w.attributes(c, ctxRecord); err != nil {
				return err
			}
		}
	}
	return c.err
}

func (w *walker) annotations(c *cursor) error {
	n := c.u2()
	for i := 0; i < n && c.err == nil; i++ {
		if err := w.annotation(c); err != nil {
			return err
		}
	}
	return c.err
}

func (w *walker) annotation(c *cursor) error {
	if err := w.ref(c, refDescriptor); err != nil {
		return err
	}
	n := c.u2()
	for i := 0; i < n && c.err == nil; i++ {
		c.skip(2)
		if err := w.elementValue(c); err != nil {
			return err
		}
	}
	return c.err
}

func (w *walker) elementValue(c *cursor) error {
	tag := c.u1()
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		c.skip(2)
	case 's':
		return w.ref(c, refValue)
	case 'e':
		if err := w.ref(c, refDescriptor); err != nil {
			return err
		}
		c.skip(2)
	case 'c':
		return w.ref(c, refDescriptor)
	case '@':
		return w.annotation(c)
	case '[':
		n := c.u2()
		for i := 0; i < n && c.err == nil; i++ {
			if err := w.elementValue(c); err != nil {
				return err
			}
		}
	default:
		if c.err != nil {
			return c.err
		}
		return errors.Newf(errors.ErrClassFormat, "unknown element value tag %q", rune(tag))
	}
	return c.err
}

func (w *walker) typeAnnotation(c *cursor) error {
	target := c.u1()
	switch {
	case target == 0x00 || target == 0x01 || target == 0x16:
		c.skip(1)
	case target == 0x10 || target == 0x17 || target == 0x42:
		c.skip(2)
	case target == 0x11 || target == 0x12:
		c.skip(2)
	case target >= 0x13 && target <= 0x15:
	case target == 0x40 || target == 0x41:
		c.skip(6 * c.u2())
	case target >= 0x43 && target <= 0x46:
		c.skip(2)
	case target >= 0x47 && target <= 0x4B:
		c.skip(3)
	default:
		if c.err != nil {
			return c.err
		}
		return errors.Newf(errors.ErrClassFormat, "unknown type annotation target 0x%02x", target)
	}
	// type_path
	c.skip(2 * c.u1())
	return w.annotation(c)
}
