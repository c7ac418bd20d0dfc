package classfile

import (
	"encoding/binary"

	"github.com/arthur-debert/shade/pkg/errors"
)

const (
	opLdc           = 0x12
	opLdcW          = 0x13
	opTableswitch   = 0xaa
	opLookupswitch  = 0xab
	opInvokevirtual = 0xb6
	opWide          = 0xc4
	opIinc          = 0x84
)

// insnLength returns the length of the instruction at pc in code, including
// the opcode.
func insnLength(code []byte, pc int) (int, error) {
	op := code[pc]
	switch {
	case op <= 0x0f, op >= 0x1a && op <= 0x35, op >= 0x3b && op <= 0x83,
		op >= 0x85 && op <= 0x98, op >= 0xac && op <= 0xb1,
		op == 0xbe, op == 0xbf, op == 0xc2, op == 0xc3, op == 0xca, op == 0xfe, op == 0xff:
		return 1, nil
	case op == 0x10, op == opLdc, op >= 0x15 && op <= 0x19, op >= 0x36 && op <= 0x3a,
		op == 0xa9, op == 0xbc:
		return 2, nil
	case op == 0x11, op == opLdcW, op == 0x14, op == opIinc, op >= 0x99 && op <= 0xa8,
		op >= 0xb2 && op <= 0xb8, op == 0xbb, op == 0xbd, op == 0xc0, op == 0xc1,
		op == 0xc6, op == 0xc7:
		return 3, nil
	case op == 0xc5:
		return 4, nil
	case op == 0xb9, op == 0xba, op == 0xc8, op == 0xc9:
		return 5, nil
	case op == opWide:
		if pc+1 < len(code) && code[pc+1] == opIinc {
			return 6, nil
		}
		return 4, nil
	case op == opTableswitch, op == opLookupswitch:
		base := pc + 1 + (4-(pc+1)%4)%4
		if base+12 > len(code) {
			return 0, truncatedCode(pc)
		}
		if op == opTableswitch {
			low := int32(binary.BigEndian.Uint32(code[base+4:]))
			high := int32(binary.BigEndian.Uint32(code[base+8:]))
			if high < low {
				return 0, errors.Newf(errors.ErrClassFormat, "tableswitch at %d has high < low", pc)
			}
			return base - pc + 12 + 4*int(int64(high)-int64(low)+1), nil
		}
		pairs := int32(binary.BigEndian.Uint32(code[base+4:]))
		if pairs < 0 {
			return 0, errors.Newf(errors.ErrClassFormat, "lookupswitch at %d has negative pair count", pc)
		}
		return base - pc + 8 + 8*int(pairs), nil
	}
	return 0, errors.Newf(errors.ErrClassFormat, "unknown opcode 0x%02x at %d", op, pc).
		WithDetail("opcode", op)
}

func truncatedCode(pc int) error {
	return errors.Newf(errors.ErrClassFormat, "truncated instruction at %d", pc)
}

// RewriteSignatureLiterals rewrites String literals that are loaded after an
// invokevirtual of one of methods. Once such a call is seen, the next ldc of
// a String in the same method is passed to fn. It returns the new bytes and
// the number of literals rewritten.
func RewriteSignatureLiterals(data []byte, methods map[string]bool, fn func(string) string) ([]byte, int, error) {
	cls, err := Parse(data)
	if err != nil {
		return nil, 0, err
	}

	count := 0
	w := &walker{cls: cls, onCode: func(start, length int) error {
		code := cls.tail[start : start+length]
		pending := false
		for pc := 0; pc < len(code); {
			n, err := insnLength(code, pc)
			if err != nil {
				return err
			}
			if pc+n > len(code) {
				return truncatedCode(pc)
			}

			switch op := code[pc]; {
			case op == opInvokevirtual:
				name, err := cls.memberName(int(binary.BigEndian.Uint16(code[pc+1:])))
				if err != nil {
					return err
				}
				if methods[name] {
					pending = true
				}
			case pending && (op == opLdc || op == opLdcW):
				rewritten, err := cls.rewriteLdc(start+pc, fn)
				if err != nil {
					return err
				}
				if rewritten >= 0 {
					pending = false
					count += rewritten
				}
			}
			pc += n
		}
		return nil
	}}
	if err := w.walk(); err != nil {
		return nil, 0, err
	}
	if !cls.Modified() {
		return data, 0, nil
	}
	return cls.Bytes(), count, nil
}

// rewriteLdc maps the String loaded by the ldc or ldc_w at off (a tail
// offset). It returns -1 when the constant is not a String, otherwise the
// number of literals changed (0 or 1).
func (cls *Class) rewriteLdc(off int, fn func(string) string) (int, error) {
	wide := cls.tail[off] == opLdcW
	var idx int
	if wide {
		idx = cls.u2At(off + 1)
	} else {
		idx = int(cls.tail[off+1])
	}
	if idx <= 0 || idx >= len(cls.pool) || cls.pool[idx].tag != tagString {
		return -1, nil
	}

	old, err := cls.stringAt(idx)
	if err != nil {
		return 0, err
	}
	mapped := fn(old)
	if mapped == old {
		return 0, nil
	}

	utf8Idx, err := cls.addUTF8(mapped)
	if err != nil {
		return 0, err
	}
	strIdx := cls.findString(utf8Idx)
	if strIdx == 0 && (wide || len(cls.pool) <= 0xFF) {
		data := make([]byte, 2)
		binary.BigEndian.PutUint16(data, uint16(utf8Idx))
		if strIdx, err = cls.add(constant{tag: tagString, data: data}); err != nil {
			return 0, err
		}
	}

	switch {
	case wide:
		cls.setU2At(off+1, strIdx)
	case strIdx > 0 && strIdx <= 0xFF:
		cls.tail[off+1] = byte(strIdx)
		cls.dirty = true
	default:
		// no index reachable from ldc: repoint the shared constant
		cls.pool[idx].setRef(0, utf8Idx)
		cls.dirty = true
	}
	return 1, nil
}
