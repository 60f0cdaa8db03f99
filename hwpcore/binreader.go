package hwpcore

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

var utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// binReader is a forward-only little-endian cursor over a payload slice.
// Out-of-bounds reads set ok=false and return zero values; callers check ok
// once after a group of reads instead of per field.
type binReader struct {
	buf []byte
	pos int
	ok  bool
}

func newBinReader(buf []byte) *binReader {
	return &binReader{buf: buf, ok: true}
}

func (r *binReader) remaining() int { return len(r.buf) - r.pos }

func (r *binReader) take(n int) []byte {
	if !r.ok || r.remaining() < n {
		r.ok = false
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *binReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *binReader) i8() int8 { return int8(r.u8()) }

func (r *binReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *binReader) i16() int16 { return int16(r.u16()) }

func (r *binReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *binReader) i32() int32 { return int32(r.u32()) }

func (r *binReader) u16s7() [7]uint16 {
	var out [7]uint16
	for i := range out {
		out[i] = r.u16()
	}
	return out
}

func (r *binReader) u8s7() [7]uint8 {
	var out [7]uint8
	for i := range out {
		out[i] = r.u8()
	}
	return out
}

func (r *binReader) i8s7() [7]int8 {
	var out [7]int8
	for i := range out {
		out[i] = r.i8()
	}
	return out
}

// utf16String reads a u16 character-count prefix followed by that many
// UTF-16LE code units and decodes them.
func (r *binReader) utf16String() string {
	n := int(r.u16())
	b := r.take(n * 2)
	if b == nil {
		return ""
	}
	return decodeUTF16(b)
}

// decodeUTF16 converts UTF-16LE bytes to a UTF-8 string. Invalid code units
// become replacement characters rather than failing.
func decodeUTF16(b []byte) string {
	out, err := utf16Decoder.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
