package hwpcore

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// validHeader builds a 256-byte FileHeader stream with version 5.0.3.0 and
// the given property bits.
func validHeader(props uint32) []byte {
	raw := make([]byte, hwpdoc.HeaderSize)
	copy(raw, hwpdoc.Signature)
	raw[32] = 0 // revision
	raw[33] = 3 // build
	raw[34] = 0 // minor
	raw[35] = 5 // major
	binary.LittleEndian.PutUint32(raw[36:], props)
	return raw
}

// zcompress deflates data the way section streams are stored.
func zcompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

// utf16le encodes a string as UTF-16LE bytes, no length prefix.
func utf16le(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

// utf16field encodes a string with the u16 character-count prefix used by
// record payloads.
func utf16field(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(units)))
	for _, u := range units {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

// paraHeaderPayload builds a minimal PARA_HEADER payload.
func paraHeaderPayload(paraShapeID uint16, styleID uint8) []byte {
	out := binary.LittleEndian.AppendUint32(nil, 0) // control mask
	out = binary.LittleEndian.AppendUint16(out, paraShapeID)
	out = append(out, styleID, 0)                   // style id, column type
	out = binary.LittleEndian.AppendUint16(out, 1)  // char shape count
	out = binary.LittleEndian.AppendUint16(out, 0)  // range tag count
	out = binary.LittleEndian.AppendUint16(out, 0)  // line align count
	out = binary.LittleEndian.AppendUint32(out, 42) // instance id
	return out
}

// tablePayload builds a TABLE payload with geometry only; cells arrive as
// separate list-header records.
func tablePayload(rows, cols uint16) []byte {
	out := binary.LittleEndian.AppendUint32(nil, 0) // properties
	out = binary.LittleEndian.AppendUint16(out, rows)
	out = binary.LittleEndian.AppendUint16(out, cols)
	out = binary.LittleEndian.AppendUint16(out, 0) // cell spacing
	for i := 0; i < 4; i++ {                       // margins
		out = binary.LittleEndian.AppendUint32(out, 0)
	}
	return out
}

// cellPayload builds a standalone list-header cell declaration with an
// empty field name.
func cellPayload(colSpan, rowSpan uint16, width, height uint32) []byte {
	return cellPayloadNamed(colSpan, rowSpan, width, height, "")
}

// cellPayloadNamed is cellPayload with an explicit field name. The name is
// length-prefixed even when empty, as real cell payloads carry it.
func cellPayloadNamed(colSpan, rowSpan uint16, width, height uint32, field string) []byte {
	out := binary.LittleEndian.AppendUint32(nil, 0) // list header id
	out = binary.LittleEndian.AppendUint16(out, colSpan)
	out = binary.LittleEndian.AppendUint16(out, rowSpan)
	out = binary.LittleEndian.AppendUint32(out, width)
	out = binary.LittleEndian.AppendUint32(out, height)
	for i := 0; i < 4; i++ { // margins
		out = binary.LittleEndian.AppendUint16(out, 0)
	}
	out = binary.LittleEndian.AppendUint16(out, 0) // border fill id
	out = binary.LittleEndian.AppendUint32(out, 0) // text width
	out = append(out, utf16field(field)...)
	return out
}

// ctrlHeaderPayload builds a CTRL_HEADER payload with the FourCC stored
// little-endian.
func ctrlHeaderPayload(id string) []byte {
	b := []byte(id)
	for len(b) < 4 {
		b = append(b, 0)
	}
	return []byte{b[3], b[2], b[1], b[0]}
}

// charShapePayload builds a 72-byte CharShape record payload.
func charShapePayload(baseSize int32, attr uint32) []byte {
	var out []byte
	for i := 0; i < 7; i++ { // font ids
		out = binary.LittleEndian.AppendUint16(out, uint16(i))
	}
	for i := 0; i < 7; i++ { // scales
		out = append(out, 100)
	}
	for i := 0; i < 7; i++ { // spacing
		out = append(out, 0)
	}
	for i := 0; i < 7; i++ { // relative sizes
		out = append(out, 100)
	}
	for i := 0; i < 7; i++ { // offsets
		out = append(out, 0)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(baseSize))
	out = binary.LittleEndian.AppendUint32(out, attr)
	out = append(out, 0, 0) // shadow gaps
	for i := 0; i < 4; i++ { // colors
		out = binary.LittleEndian.AppendUint32(out, 0)
	}
	out = binary.LittleEndian.AppendUint16(out, 0) // border fill id
	for len(out) < charShapeMinSize {
		out = append(out, 0)
	}
	return out
}

// paraShapePayload builds a 54-byte ParaShape record payload.
func paraShapePayload(attr uint32) []byte {
	out := binary.LittleEndian.AppendUint32(nil, attr)
	for i := 0; i < 6; i++ { // margins, indent, line spacing
		out = binary.LittleEndian.AppendUint32(out, 0)
	}
	for i := 0; i < 3; i++ { // tab def, para head, border fill
		out = binary.LittleEndian.AppendUint16(out, 0)
	}
	for i := 0; i < 4; i++ { // border spaces
		out = binary.LittleEndian.AppendUint16(out, 0)
	}
	for i := 0; i < 3; i++ { // attr2, attr3, line space type
		out = binary.LittleEndian.AppendUint32(out, 0)
	}
	return out
}
