package classfile

import (
	"encoding/binary"

	"github.com/arthur-debert/shade/pkg/errors"
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// maxPoolSize is the largest constant_pool_count a class file can declare.
const maxPoolSize = 0xFFFF

// constant is one constant pool slot. data holds the body after the tag;
// for Utf8 it holds the encoded bytes and text the decoded value. The
// second slot of a Long or Double has tag 0.
type constant struct {
	tag  byte
	data []byte
	text string
}

func (k *constant) ref(at int) int {
	return int(binary.BigEndian.Uint16(k.data[at:]))
}

func (k *constant) setRef(at, idx int) {
	binary.BigEndian.PutUint16(k.data[at:], uint16(idx))
}

func bodySize(tag byte) (int, bool) {
	switch tag {
	case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
		tagNameAndType, tagDynamic, tagInvokeDynamic:
		return 4, true
	case tagLong, tagDouble:
		return 8, true
	case tagClass, tagString, tagMethodType, tagModule, tagPackage:
		return 2, true
	case tagMethodHandle:
		return 3, true
	}
	return 0, false
}

func parsePool(c *cursor) ([]constant, error) {
	count := c.u2()
	if c.err != nil {
		return nil, c.err
	}
	if count == 0 {
		return nil, errors.New(errors.ErrClassFormat, "empty constant pool")
	}

	pool := make([]constant, count)
	for i := 1; i < count; i++ {
		tag := byte(c.u1())
		if tag == tagUtf8 {
			raw := c.bytes(c.u2())
			if c.err != nil {
				return nil, c.err
			}
			text, err := decodeMUTF8(raw)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrClassFormat, "constant #%d", i)
			}
			pool[i] = constant{tag: tag, data: raw, text: text}
			continue
		}

		size, ok := bodySize(tag)
		if !ok {
			if c.err != nil {
				return nil, c.err
			}
			return nil, errors.Newf(errors.ErrClassFormat, "unknown constant tag %d at #%d", tag, i).
				WithDetail("tag", tag)
		}
		body := c.bytes(size)
		if c.err != nil {
			return nil, c.err
		}
		pool[i] = constant{tag: tag, data: append([]byte(nil), body...)}
		if tag == tagLong || tag == tagDouble {
			i++
		}
	}
	return pool, nil
}
