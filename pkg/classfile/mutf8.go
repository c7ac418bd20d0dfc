package classfile

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arthur-debert/shade/pkg/errors"
)

// decodeMUTF8 decodes the modified UTF-8 used by CONSTANT_Utf8. Unpaired
// surrogates cannot be represented in a Go string and are rejected.
func decodeMUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); {
		r, n, err := decodeUnit(b, i)
		if err != nil {
			return "", err
		}
		i += n
		if utf16.IsSurrogate(r) {
			if r >= 0xDC00 || i >= len(b) {
				return "", badUTF8(i)
			}
			low, m, err := decodeUnit(b, i)
			if err != nil {
				return "", err
			}
			r = utf16.DecodeRune(r, low)
			if r == utf8.RuneError {
				return "", badUTF8(i)
			}
			i += m
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// decodeUnit decodes one 1-3 byte sequence starting at i.
func decodeUnit(b []byte, i int) (rune, int, error) {
	c := b[i]
	switch {
	case c < 0x80:
		return rune(c), 1, nil
	case c&0xE0 == 0xC0:
		if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
			return 0, 0, badUTF8(i)
		}
		return rune(c&0x1F)<<6 | rune(b[i+1]&0x3F), 2, nil
	case c&0xF0 == 0xE0:
		if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
			return 0, 0, badUTF8(i)
		}
		return rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F), 3, nil
	}
	return 0, 0, badUTF8(i)
}

func badUTF8(off int) error {
	return errors.Newf(errors.ErrClassFormat, "invalid modified UTF-8 at byte %d", off).
		WithDetail("offset", off)
}

// encodeMUTF8 is the inverse of decodeMUTF8.
func encodeMUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			out = appendUnit3(out, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendUnit3(out, hi)
			out = appendUnit3(out, lo)
		}
	}
	return out
}

func appendUnit3(out []byte, r rune) []byte {
	return append(out, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}
