package hwpcore

import (
	"encoding/binary"
	"strings"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// paraHeader is the decoded PARA_HEADER payload.
type paraHeader struct {
	controlMask    uint32
	paraShapeID    uint16
	styleID        uint8
	columnType     uint8
	charShapeCount uint16
	rangeTagCount  uint16
	lineAlignCount uint16
	instanceID     uint32
}

func parseParaHeader(payload []byte) paraHeader {
	var h paraHeader
	r := newBinReader(payload)
	// Older files may carry a leading u32 char count; the fixed fields below
	// are what downstream needs, so decode leniently and keep zeros on short
	// payloads.
	h.controlMask = r.u32()
	h.paraShapeID = r.u16()
	h.styleID = r.u8()
	h.columnType = r.u8()
	h.charShapeCount = r.u16()
	h.rangeTagCount = r.u16()
	h.lineAlignCount = r.u16()
	h.instanceID = r.u32()
	return h
}

// parseParaText decodes a PARA_TEXT payload: UTF-16LE code units, with HWP
// inline control characters (< 0x20) dropped except tab, LF, and CR.
func parseParaText(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}
	if len(payload)%2 != 0 {
		return "", parseErrorf(0, "paragraph text has odd byte length %d", len(payload))
	}
	filtered := make([]byte, 0, len(payload))
	for i := 0; i+1 < len(payload); i += 2 {
		c := binary.LittleEndian.Uint16(payload[i:])
		if c >= 0x20 || c == 0x09 || c == 0x0A || c == 0x0D {
			filtered = append(filtered, payload[i], payload[i+1])
		}
	}
	return decodeUTF16(filtered), nil
}

// parseCharShapeRefs decodes PARA_CHAR_SHAPE: (position, char shape id)
// pairs of u32 each. Shape ids are dense small integers; the table index
// fits u16.
func parseCharShapeRefs(payload []byte) []hwpdoc.CharShapeRef {
	n := len(payload) / 8
	if n == 0 {
		return nil
	}
	refs := make([]hwpdoc.CharShapeRef, 0, n)
	for i := 0; i+8 <= len(payload); i += 8 {
		refs = append(refs, hwpdoc.CharShapeRef{
			Pos:     binary.LittleEndian.Uint32(payload[i:]),
			ShapeID: uint16(binary.LittleEndian.Uint32(payload[i+4:])),
		})
	}
	return refs
}

// tableCtrlID is the FourCC of a table control header ("tbl " read as a
// little-endian u32).
const tableCtrlID = "tbl "

// parseCtrlID decodes the leading FourCC of a CTRL_HEADER payload.
func parseCtrlID(payload []byte) string {
	if len(payload) < 4 {
		return ""
	}
	// Stored little-endian; reverse to the human-readable order.
	b := []byte{payload[3], payload[2], payload[1], payload[0]}
	return strings.TrimRight(string(b), "\x00")
}

// tableMinSize is the fixed prefix of a TABLE record payload.
const tableMinSize = 26

// parseTable decodes the TABLE payload: grid geometry, then any inline
// cell declarations. Cells that arrive as separate list-header records are
// appended by the reconstructor instead.
func parseTable(payload []byte) (*hwpdoc.Table, error) {
	if len(payload) < tableMinSize {
		return nil, parseErrorf(0, "table payload is %d bytes, want at least %d", len(payload), tableMinSize)
	}
	r := newBinReader(payload)
	t := &hwpdoc.Table{
		Properties:  r.u32(),
		Rows:        r.u16(),
		Cols:        r.u16(),
		CellSpacing: r.u16(),
	}
	t.MarginLeft = r.i32()
	t.MarginRight = r.i32()
	t.MarginTop = r.i32()
	t.MarginBottom = r.i32()

	// Inline cells, row-major, as many as the payload actually holds.
	total := int(t.Rows) * int(t.Cols)
	for i := 0; i < total && r.remaining() >= cellMinSize; i++ {
		cell, ok := parseCell(r)
		if !ok {
			break
		}
		cell.Row = uint16(i / int(t.Cols))
		cell.Col = uint16(i % int(t.Cols))
		t.Cells = append(t.Cells, cell)
	}
	return t, nil
}

// cellMinSize is the fixed prefix of a cell declaration.
const cellMinSize = 30

func parseCell(r *binReader) (hwpdoc.TableCell, bool) {
	var c hwpdoc.TableCell
	r.u32() // list header id
	c.ColSpan = r.u16()
	c.RowSpan = r.u16()
	c.Width = r.u32()
	c.Height = r.u32()
	r.u16() // margin left
	r.u16() // margin right
	r.u16() // margin top
	r.u16() // margin bottom
	c.BorderFillID = r.u16()
	r.u32() // text width
	if r.remaining() >= 2 {
		c.FieldName = r.utf16String()
	}
	return c, r.ok
}

// parseCellPayload decodes a standalone list-header cell record. Payloads
// shorter than the fixed layout yield a default 1x1 cell; the grid position
// is assigned positionally by the reconstructor.
func parseCellPayload(payload []byte) hwpdoc.TableCell {
	if len(payload) < cellMinSize {
		return hwpdoc.TableCell{ColSpan: 1, RowSpan: 1}
	}
	cell, ok := parseCell(newBinReader(payload))
	if !ok {
		return hwpdoc.TableCell{ColSpan: 1, RowSpan: 1}
	}
	if cell.ColSpan == 0 {
		cell.ColSpan = 1
	}
	if cell.RowSpan == 0 {
		cell.RowSpan = 1
	}
	return cell
}

// parsePicture decodes a SHAPE_COMPONENT_PICTURE payload down to the
// fields the model keeps: the BinData reference and the display size.
func parsePicture(payload []byte) *hwpdoc.Picture {
	p := &hwpdoc.Picture{}
	r := newBinReader(payload)
	if r.remaining() >= 2 {
		p.BinDataID = r.u16()
	}
	if r.remaining() >= 8 {
		p.Width = r.u32()
		p.Height = r.u32()
	}
	return p
}
