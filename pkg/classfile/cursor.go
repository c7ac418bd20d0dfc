package classfile

import (
	"encoding/binary"

	"github.com/arthur-debert/shade/pkg/errors"
)

// cursor reads big-endian values from b. The first out-of-bounds read sets
// err and every later read returns zero, so loops driven by counts read
// through a failed cursor terminate.
type cursor struct {
	b   []byte
	off int
	err error
}

func (c *cursor) need(n int) bool {
	if c.err != nil {
		return false
	}
	if n < 0 || c.off+n > len(c.b) {
		c.err = errors.Newf(errors.ErrClassFormat, "truncated class file at byte %d", c.off).
			WithDetail("offset", c.off)
		return false
	}
	return true
}

func (c *cursor) u1() int {
	if !c.need(1) {
		return 0
	}
	v := c.b[c.off]
	c.off++
	return int(v)
}

func (c *cursor) u2() int {
	if !c.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(c.b[c.off:])
	c.off += 2
	return int(v)
}

func (c *cursor) u4() uint32 {
	if !c.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(c.b[c.off:])
	c.off += 4
	return v
}

func (c *cursor) bytes(n int) []byte {
	if !c.need(n) {
		return nil
	}
	v := c.b[c.off : c.off+n]
	c.off += n
	return v
}

func (c *cursor) skip(n int) {
	if c.need(n) {
		c.off += n
	}
}

// sub returns a cursor over the next n bytes sharing offsets with c, and
// advances c past them.
func (c *cursor) sub(n int) *cursor {
	if !c.need(n) {
		return &cursor{b: c.b, off: c.off, err: c.err}
	}
	s := &cursor{b: c.b[:c.off+n], off: c.off}
	c.off += n
	return s
}
