package classfile

import (
	"encoding/binary"

	"github.com/arthur-debert/shade/pkg/errors"
)

const magic = 0xCAFEBABE

// Class is a parsed class file: header, constant pool and the remaining
// bytes, which are kept verbatim and only patched in place.
type Class struct {
	Minor, Major int

	pool  []constant
	tail  []byte
	utf8s map[string]int
	dirty bool
}

// Parse parses a class file. data is not retained.
func Parse(data []byte) (*Class, error) {
	c := &cursor{b: data}
	if c.u4() != magic {
		if c.err != nil {
			return nil, c.err
		}
		return nil, errors.New(errors.ErrClassFormat, "not a class file: bad magic")
	}
	cls := &Class{Minor: c.u2(), Major: c.u2()}

	pool, err := parsePool(c)
	if err != nil {
		return nil, err
	}
	cls.pool = pool
	cls.tail = append([]byte(nil), data[c.off:]...)
	if len(cls.tail) < 8 {
		return nil, errors.New(errors.ErrClassFormat, "truncated class file after constant pool")
	}
	return cls, nil
}

// Name returns the internal name of the class (this_class).
func (cls *Class) Name() (string, error) {
	return cls.className(int(binary.BigEndian.Uint16(cls.tail[2:])))
}

// SuperName returns the internal name of the superclass, or "" for
// java/lang/Object and module-info.
func (cls *Class) SuperName() (string, error) {
	idx := int(binary.BigEndian.Uint16(cls.tail[4:]))
	if idx == 0 {
		return "", nil
	}
	return cls.className(idx)
}

// Bytes serializes the class.
func (cls *Class) Bytes() []byte {
	size := 10 + len(cls.tail)
	for _, k := range cls.pool {
		size += 1 + len(k.data) + 2
	}
	out := make([]byte, 0, size)
	out = binary.BigEndian.AppendUint32(out, magic)
	out = binary.BigEndian.AppendUint16(out, uint16(cls.Minor))
	out = binary.BigEndian.AppendUint16(out, uint16(cls.Major))
	out = binary.BigEndian.AppendUint16(out, uint16(len(cls.pool)))
	for _, k := range cls.pool[1:] {
		if k.tag == 0 {
			continue
		}
		out = append(out, k.tag)
		if k.tag == tagUtf8 {
			out = binary.BigEndian.AppendUint16(out, uint16(len(k.data)))
		}
		out = append(out, k.data...)
	}
	return append(out, cls.tail...)
}

// Modified reports whether any reference was rewritten since Parse.
func (cls *Class) Modified() bool { return cls.dirty }

func (cls *Class) entry(idx int, tag byte) (*constant, error) {
	if idx <= 0 || idx >= len(cls.pool) || cls.pool[idx].tag != tag {
		return nil, errors.Newf(errors.ErrClassFormat, "bad constant pool reference #%d", idx).
			WithDetail("index", idx).
			WithDetail("tag", tag)
	}
	return &cls.pool[idx], nil
}

func (cls *Class) utf8(idx int) (string, error) {
	k, err := cls.entry(idx, tagUtf8)
	if err != nil {
		return "", err
	}
	return k.text, nil
}

func (cls *Class) className(idx int) (string, error) {
	k, err := cls.entry(idx, tagClass)
	if err != nil {
		return "", err
	}
	return cls.utf8(k.ref(0))
}

func (cls *Class) stringAt(idx int) (string, error) {
	k, err := cls.entry(idx, tagString)
	if err != nil {
		return "", err
	}
	return cls.utf8(k.ref(0))
}

// memberName returns the method or field name of a *ref constant.
func (cls *Class) memberName(idx int) (string, error) {
	if idx <= 0 || idx >= len(cls.pool) {
		return "", errors.Newf(errors.ErrClassFormat, "bad constant pool reference #%d", idx)
	}
	switch cls.pool[idx].tag {
	case tagFieldref, tagMethodref, tagInterfaceMethodref:
	default:
		return "", errors.Newf(errors.ErrClassFormat, "constant #%d is not a member reference", idx)
	}
	nat, err := cls.entry(cls.pool[idx].ref(2), tagNameAndType)
	if err != nil {
		return "", err
	}
	return cls.utf8(nat.ref(0))
}

func (cls *Class) add(k constant) (int, error) {
	if len(cls.pool) >= maxPoolSize {
		return 0, errors.Newf(errors.ErrClassTooLarge,
			"constant pool is full (%d entries)", len(cls.pool))
	}
	cls.pool = append(cls.pool, k)
	cls.dirty = true
	return len(cls.pool) - 1, nil
}

// addUTF8 returns the index of a Utf8 constant holding s, appending one if
// none exists.
func (cls *Class) addUTF8(s string) (int, error) {
	if cls.utf8s == nil {
		cls.utf8s = make(map[string]int)
		for i, k := range cls.pool {
			if k.tag != tagUtf8 {
				continue
			}
			if _, ok := cls.utf8s[k.text]; !ok {
				cls.utf8s[k.text] = i
			}
		}
	}
	if idx, ok := cls.utf8s[s]; ok {
		return idx, nil
	}
	raw := encodeMUTF8(s)
	if len(raw) > 0xFFFF {
		return 0, errors.Newf(errors.ErrClassTooLarge, "string constant too long (%d bytes)", len(raw))
	}
	idx, err := cls.add(constant{tag: tagUtf8, data: raw, text: s})
	if err != nil {
		return 0, err
	}
	cls.utf8s[s] = idx
	return idx, nil
}

// findString returns the index of a String constant pointing at utf8Idx, or 0.
func (cls *Class) findString(utf8Idx int) int {
	for i, k := range cls.pool {
		if k.tag == tagString && k.ref(0) == utf8Idx {
			return i
		}
	}
	return 0
}

func (cls *Class) u2At(off int) int {
	return int(binary.BigEndian.Uint16(cls.tail[off:]))
}

func (cls *Class) setU2At(off, v int) {
	binary.BigEndian.PutUint16(cls.tail[off:], uint16(v))
	cls.dirty = true
}
