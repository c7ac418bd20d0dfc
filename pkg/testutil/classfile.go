// pkg/testutil/classfile.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Assemble small class files in memory for transformation tests

package testutil

import (
	"encoding/binary"
)

// Pool is a constant pool under construction. Equal constants are shared.
type Pool struct {
	entries [][]byte
	index   map[string]uint16
}

func newPool() *Pool {
	return &Pool{index: make(map[string]uint16)}
}

func (p *Pool) intern(entry []byte) uint16 {
	key := string(entry)
	if idx, ok := p.index[key]; ok {
		return idx
	}
	p.entries = append(p.entries, entry)
	idx := uint16(len(p.entries))
	p.index[key] = idx
	return idx
}

// Utf8 returns the index of a Utf8 constant. Only ASCII and BMP text
// without NUL is supported.
func (p *Pool) Utf8(s string) uint16 {
	e := []byte{1}
	e = binary.BigEndian.AppendUint16(e, uint16(len(s)))
	return p.intern(append(e, s...))
}

func (p *Pool) ref(tag byte, idx ...uint16) uint16 {
	e := []byte{tag}
	for _, i := range idx {
		e = binary.BigEndian.AppendUint16(e, i)
	}
	return p.intern(e)
}

// Class returns the index of a Class constant.
func (p *Pool) Class(name string) uint16 { return p.ref(7, p.Utf8(name)) }

// String returns the index of a String constant.
func (p *Pool) String(s string) uint16 { return p.ref(8, p.Utf8(s)) }

// NameAndType returns the index of a NameAndType constant.
func (p *Pool) NameAndType(name, desc string) uint16 {
	return p.ref(12, p.Utf8(name), p.Utf8(desc))
}

// Methodref returns the index of a Methodref constant.
func (p *Pool) Methodref(owner, name, desc string) uint16 {
	return p.ref(10, p.Class(owner), p.NameAndType(name, desc))
}

// Fieldref returns the index of a Fieldref constant.
func (p *Pool) Fieldref(owner, name, desc string) uint16 {
	return p.ref(9, p.Class(owner), p.NameAndType(name, desc))
}

// MethodType returns the index of a MethodType constant.
func (p *Pool) MethodType(desc string) uint16 { return p.ref(16, p.Utf8(desc)) }

// Package returns the index of a Package constant.
func (p *Pool) Package(name string) uint16 { return p.ref(20, p.Utf8(name)) }

// Integer returns the index of an Integer constant.
func (p *Pool) Integer(v int32) uint16 {
	e := []byte{3}
	return p.intern(binary.BigEndian.AppendUint32(e, uint32(v)))
}

// Padding adds n distinct unused Integer constants, pushing later constants
// past the reach of ldc.
func (p *Pool) Padding(n int) {
	for i := 0; i < n; i++ {
		p.Integer(int32(0x10000 + i))
	}
}

// Attr builds one attribute against the pool.
type Attr func(p *Pool) []byte

func attribute(p *Pool, name string, body []byte) []byte {
	out := binary.BigEndian.AppendUint16(nil, p.Utf8(name))
	out = binary.BigEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

// RawAttr is an attribute with an opaque body.
func RawAttr(name string, body []byte) Attr {
	return func(p *Pool) []byte { return attribute(p, name, body) }
}

// SignatureAttr is a Signature attribute.
func SignatureAttr(sig string) Attr {
	return func(p *Pool) []byte {
		return attribute(p, "Signature", binary.BigEndian.AppendUint16(nil, p.Utf8(sig)))
	}
}

// ElementValue builds one annotation element value.
type ElementValue func(p *Pool) []byte

// StringValue is an element value of tag 's'.
func StringValue(s string) ElementValue {
	return func(p *Pool) []byte { return binary.BigEndian.AppendUint16([]byte{'s'}, p.Utf8(s)) }
}

// ClassValue is an element value of tag 'c'.
func ClassValue(desc string) ElementValue {
	return func(p *Pool) []byte { return binary.BigEndian.AppendUint16([]byte{'c'}, p.Utf8(desc)) }
}

// EnumValue is an element value of tag 'e'.
func EnumValue(desc, constName string) ElementValue {
	return func(p *Pool) []byte {
		out := binary.BigEndian.AppendUint16([]byte{'e'}, p.Utf8(desc))
		return binary.BigEndian.AppendUint16(out, p.Utf8(constName))
	}
}

// IntValue is an element value of tag 'I'.
func IntValue(v int32) ElementValue {
	return func(p *Pool) []byte { return binary.BigEndian.AppendUint16([]byte{'I'}, p.Integer(v)) }
}

// ArrayValue is an element value of tag '['.
func ArrayValue(values ...ElementValue) ElementValue {
	return func(p *Pool) []byte {
		out := binary.BigEndian.AppendUint16([]byte{'['}, uint16(len(values)))
		for _, v := range values {
			out = append(out, v(p)...)
		}
		return out
	}
}

// NestedValue is an element value of tag '@'.
func NestedValue(a Annotation) ElementValue {
	return func(p *Pool) []byte { return append([]byte{'@'}, a.encode(p)...) }
}

// Annotation is an annotation with named element values.
type Annotation struct {
	Desc   string
	Names  []string
	Values []ElementValue
}

// With returns a copy of a with one more element.
func (a Annotation) With(name string, v ElementValue) Annotation {
	a.Names = append(append([]string(nil), a.Names...), name)
	a.Values = append(append([]ElementValue(nil), a.Values...), v)
	return a
}

func (a Annotation) encode(p *Pool) []byte {
	out := binary.BigEndian.AppendUint16(nil, p.Utf8(a.Desc))
	out = binary.BigEndian.AppendUint16(out, uint16(len(a.Names)))
	for i, name := range a.Names {
		out = binary.BigEndian.AppendUint16(out, p.Utf8(name))
		out = append(out, a.Values[i](p)...)
	}
	return out
}

// AnnotationsAttr is a RuntimeVisibleAnnotations attribute.
func AnnotationsAttr(as ...Annotation) Attr {
	return func(p *Pool) []byte {
		body := binary.BigEndian.AppendUint16(nil, uint16(len(as)))
		for _, a := range as {
			body = append(body, a.encode(p)...)
		}
		return attribute(p, "RuntimeVisibleAnnotations", body)
	}
}

// ParameterAnnotationsAttr is a RuntimeInvisibleParameterAnnotations
// attribute with one annotation list per parameter.
func ParameterAnnotationsAttr(params ...[]Annotation) Attr {
	return func(p *Pool) []byte {
		body := []byte{byte(len(params))}
		for _, as := range params {
			body = binary.BigEndian.AppendUint16(body, uint16(len(as)))
			for _, a := range as {
				body = append(body, a.encode(p)...)
			}
		}
		return attribute(p, "RuntimeInvisibleParameterAnnotations", body)
	}
}

// FieldTypeAnnotationAttr is a RuntimeVisibleTypeAnnotations attribute with
// one empty_target annotation.
func FieldTypeAnnotationAttr(a Annotation) Attr {
	return func(p *Pool) []byte {
		body := binary.BigEndian.AppendUint16(nil, 1)
		body = append(body, 0x13, 0)
		body = append(body, a.encode(p)...)
		return attribute(p, "RuntimeVisibleTypeAnnotations", body)
	}
}

// AnnotationDefaultAttr is an AnnotationDefault attribute.
func AnnotationDefaultAttr(v ElementValue) Attr {
	return func(p *Pool) []byte { return attribute(p, "AnnotationDefault", v(p)) }
}

// RecordComponent is one component of a Record attribute.
type RecordComponent struct {
	Name      string
	Desc      string
	Signature string
}

// RecordAttr is a Record attribute.
func RecordAttr(components ...RecordComponent) Attr {
	return func(p *Pool) []byte {
		body := binary.BigEndian.AppendUint16(nil, uint16(len(components)))
		for _, rc := range components {
			body = binary.BigEndian.AppendUint16(body, p.Utf8(rc.Name))
			body = binary.BigEndian.AppendUint16(body, p.Utf8(rc.Desc))
			if rc.Signature == "" {
				body = binary.BigEndian.AppendUint16(body, 0)
				continue
			}
			body = binary.BigEndian.AppendUint16(body, 1)
			body = append(body, SignatureAttr(rc.Signature)(p)...)
		}
		return attribute(p, "Record", body)
	}
}

// InnerClass is one InnerClasses row. Empty Outer or Name encode as 0.
type InnerClass struct {
	Inner  string
	Outer  string
	Name   string
	Access uint16
}

// InnerClassesAttr is an InnerClasses attribute.
func InnerClassesAttr(rows ...InnerClass) Attr {
	return func(p *Pool) []byte {
		body := binary.BigEndian.AppendUint16(nil, uint16(len(rows)))
		for _, r := range rows {
			var outer, name uint16
			if r.Outer != "" {
				outer = p.Class(r.Outer)
			}
			if r.Name != "" {
				name = p.Utf8(r.Name)
			}
			body = binary.BigEndian.AppendUint16(body, p.Class(r.Inner))
			body = binary.BigEndian.AppendUint16(body, outer)
			body = binary.BigEndian.AppendUint16(body, name)
			body = binary.BigEndian.AppendUint16(body, r.Access)
		}
		return attribute(p, "InnerClasses", body)
	}
}

// LocalVariable is one LocalVariableTable or LocalVariableTypeTable row.
type LocalVariable struct {
	Name string
	// Desc is a descriptor, or a signature in a type table.
	Desc  string
	Slot  uint16
	Start uint16
	Len   uint16
}

// Code assembles a method body.
type Code struct {
	insns     []func(p *Pool) []byte
	locals    []LocalVariable
	localSigs []LocalVariable
	MaxStack  uint16
	MaxLocals uint16
}

// NewCode returns an empty method body.
func NewCode() *Code { return &Code{MaxStack: 4, MaxLocals: 4} }

func (c *Code) emit(f func(p *Pool) []byte) *Code {
	c.insns = append(c.insns, f)
	return c
}

// Raw appends literal instruction bytes.
func (c *Code) Raw(b ...byte) *Code {
	return c.emit(func(*Pool) []byte { return b })
}

// Ldc loads a String constant with ldc.
func (c *Code) Ldc(s string) *Code {
	return c.emit(func(p *Pool) []byte { return []byte{0x12, byte(p.String(s))} })
}

// LdcW loads a String constant with ldc_w.
func (c *Code) LdcW(s string) *Code {
	return c.emit(func(p *Pool) []byte { return binary.BigEndian.AppendUint16([]byte{0x13}, p.String(s)) })
}

// LdcClass loads a Class constant with ldc_w.
func (c *Code) LdcClass(name string) *Code {
	return c.emit(func(p *Pool) []byte { return binary.BigEndian.AppendUint16([]byte{0x13}, p.Class(name)) })
}

// InvokeVirtual calls an instance method.
func (c *Code) InvokeVirtual(owner, name, desc string) *Code {
	return c.emit(func(p *Pool) []byte {
		return binary.BigEndian.AppendUint16([]byte{0xb6}, p.Methodref(owner, name, desc))
	})
}

// InvokeStatic calls a static method.
func (c *Code) InvokeStatic(owner, name, desc string) *Code {
	return c.emit(func(p *Pool) []byte {
		return binary.BigEndian.AppendUint16([]byte{0xb8}, p.Methodref(owner, name, desc))
	})
}

// GetStatic reads a static field.
func (c *Code) GetStatic(owner, name, desc string) *Code {
	return c.emit(func(p *Pool) []byte {
		return binary.BigEndian.AppendUint16([]byte{0xb2}, p.Fieldref(owner, name, desc))
	})
}

// New allocates an instance.
func (c *Code) New(class string) *Code {
	return c.emit(func(p *Pool) []byte { return binary.BigEndian.AppendUint16([]byte{0xbb}, p.Class(class)) })
}

// Pop discards the top of the stack.
func (c *Code) Pop() *Code { return c.Raw(0x57) }

// Return returns void.
func (c *Code) Return() *Code { return c.Raw(0xb1) }

// Local adds a LocalVariableTable row.
func (c *Code) Local(lv LocalVariable) *Code {
	c.locals = append(c.locals, lv)
	return c
}

// LocalSignature adds a LocalVariableTypeTable row.
func (c *Code) LocalSignature(lv LocalVariable) *Code {
	c.localSigs = append(c.localSigs, lv)
	return c
}

// Attr returns the Code attribute.
func (c *Code) Attr() Attr {
	return func(p *Pool) []byte {
		var code []byte
		for _, f := range c.insns {
			code = append(code, f(p)...)
		}
		body := binary.BigEndian.AppendUint16(nil, c.MaxStack)
		body = binary.BigEndian.AppendUint16(body, c.MaxLocals)
		body = binary.BigEndian.AppendUint32(body, uint32(len(code)))
		body = append(body, code...)
		body = binary.BigEndian.AppendUint16(body, 0)

		var attrs [][]byte
		if len(c.locals) > 0 {
			attrs = append(attrs, attribute(p, "LocalVariableTable", localTable(p, c.locals)))
		}
		if len(c.localSigs) > 0 {
			attrs = append(attrs, attribute(p, "LocalVariableTypeTable", localTable(p, c.localSigs)))
		}
		body = binary.BigEndian.AppendUint16(body, uint16(len(attrs)))
		for _, a := range attrs {
			body = append(body, a...)
		}
		return attribute(p, "Code", body)
	}
}

func localTable(p *Pool, rows []LocalVariable) []byte {
	out := binary.BigEndian.AppendUint16(nil, uint16(len(rows)))
	for _, lv := range rows {
		out = binary.BigEndian.AppendUint16(out, lv.Start)
		out = binary.BigEndian.AppendUint16(out, lv.Len)
		out = binary.BigEndian.AppendUint16(out, p.Utf8(lv.Name))
		out = binary.BigEndian.AppendUint16(out, p.Utf8(lv.Desc))
		out = binary.BigEndian.AppendUint16(out, lv.Slot)
	}
	return out
}

type member struct {
	access uint16
	name   string
	desc   string
	attrs  []Attr
}

// ClassBuilder assembles a class file.
type ClassBuilder struct {
	name       string
	super      string
	interfaces []string
	fields     []member
	methods    []member
	attrs      []Attr
	pool       *Pool
	prelude    []func(p *Pool)
	major      uint16
}

// NewClass starts a public class extending java/lang/Object.
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{name: name, super: "java/lang/Object", pool: newPool(), major: 52}
}

// Super sets the superclass.
func (b *ClassBuilder) Super(name string) *ClassBuilder {
	b.super = name
	return b
}

// Implements adds interfaces.
func (b *ClassBuilder) Implements(names ...string) *ClassBuilder {
	b.interfaces = append(b.interfaces, names...)
	return b
}

// Field adds a field.
func (b *ClassBuilder) Field(name, desc string, attrs ...Attr) *ClassBuilder {
	b.fields = append(b.fields, member{access: 0x0002, name: name, desc: desc, attrs: attrs})
	return b
}

// Method adds a method.
func (b *ClassBuilder) Method(name, desc string, attrs ...Attr) *ClassBuilder {
	b.methods = append(b.methods, member{access: 0x0001, name: name, desc: desc, attrs: attrs})
	return b
}

// Attr adds a class attribute.
func (b *ClassBuilder) Attr(attrs ...Attr) *ClassBuilder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// Constants runs f against the pool before anything else is added, which
// controls the indices early constants receive.
func (b *ClassBuilder) Constants(f func(p *Pool)) *ClassBuilder {
	b.prelude = append(b.prelude, f)
	return b
}

// Build serializes the class.
func (b *ClassBuilder) Build() []byte {
	p := b.pool
	for _, f := range b.prelude {
		f(p)
	}

	var tail []byte
	tail = binary.BigEndian.AppendUint16(tail, 0x0021)
	tail = binary.BigEndian.AppendUint16(tail, p.Class(b.name))
	var super uint16
	if b.super != "" {
		super = p.Class(b.super)
	}
	tail = binary.BigEndian.AppendUint16(tail, super)
	tail = binary.BigEndian.AppendUint16(tail, uint16(len(b.interfaces)))
	for _, i := range b.interfaces {
		tail = binary.BigEndian.AppendUint16(tail, p.Class(i))
	}
	for _, members := range [][]member{b.fields, b.methods} {
		tail = binary.BigEndian.AppendUint16(tail, uint16(len(members)))
		for _, m := range members {
			tail = binary.BigEndian.AppendUint16(tail, m.access)
			tail = binary.BigEndian.AppendUint16(tail, p.Utf8(m.name))
			tail = binary.BigEndian.AppendUint16(tail, p.Utf8(m.desc))
			tail = appendAttrs(tail, p, m.attrs)
		}
	}
	tail = appendAttrs(tail, p, b.attrs)

	out := binary.BigEndian.AppendUint32(nil, 0xCAFEBABE)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, b.major)
	out = binary.BigEndian.AppendUint16(out, uint16(len(p.entries)+1))
	for _, e := range p.entries {
		out = append(out, e...)
	}
	return append(out, tail...)
}

func appendAttrs(out []byte, p *Pool, attrs []Attr) []byte {
	out = binary.BigEndian.AppendUint16(out, uint16(len(attrs)))
	for _, a := range attrs {
		out = append(out, a(p)...)
	}
	return out
}
