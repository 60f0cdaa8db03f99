package hwpcore

import "github.com/hazyhaar/hwpread/hwpdoc"

// DocInfo holds the global style and asset tables parsed from the DocInfo
// stream. Tables are index-addressed; they are read-only once parsing is
// done, which is what makes parallel section reconstruction safe.
type DocInfo struct {
	CharShapes []hwpdoc.CharShape
	ParaShapes []hwpdoc.ParaShape
	BinData    []hwpdoc.BinData
}

// ParseDocInfo walks the DocInfo record stream and collects the style and
// asset tables. Records with unknown tags are skipped; records whose
// payload is too short for their declared layout are skipped rather than
// failing the stream, since styles are cosmetic.
func ParseDocInfo(buf []byte, maxRecords int) (*DocInfo, error) {
	info := &DocInfo{}
	sc := NewRecordScanner(buf, maxRecords)
	var binID uint16

	for sc.Scan() {
		rec := sc.Record()
		switch rec.Header.Tag {
		case hwpdoc.TagCharShape:
			if cs, ok := parseCharShape(rec.Payload); ok {
				info.CharShapes = append(info.CharShapes, cs)
			}
		case hwpdoc.TagParaShape:
			if ps, ok := parseParaShape(rec.Payload); ok {
				info.ParaShapes = append(info.ParaShapes, ps)
			}
		case hwpdoc.TagBinData:
			if bd, ok := parseBinData(rec.Payload, binID); ok {
				info.BinData = append(info.BinData, bd)
				binID++
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

// charShapeMinSize is the fixed prefix of a CharShape record payload.
const charShapeMinSize = 72

// parseCharShape decodes the 72-byte fixed layout plus the optional
// trailing border fill id.
func parseCharShape(payload []byte) (hwpdoc.CharShape, bool) {
	var cs hwpdoc.CharShape
	if len(payload) < charShapeMinSize {
		return cs, false
	}
	r := newBinReader(payload)
	cs.FontIDs = r.u16s7()
	cs.FontScales = r.u8s7()
	cs.CharSpacing = r.i8s7()
	cs.RelativeSizes = r.u8s7()
	cs.CharOffsets = r.i8s7()
	cs.BaseSize = r.i32()
	cs.Attr = hwpdoc.CharShapeAttr(r.u32())
	cs.ShadowGapX = r.i8()
	cs.ShadowGapY = r.i8()
	cs.TextColor = r.u32()
	cs.UnderlineColor = r.u32()
	cs.ShadeColor = r.u32()
	cs.ShadowColor = r.u32()
	if r.remaining() >= 2 {
		cs.BorderFillID = r.u16()
	}
	return cs, r.ok
}

// paraShapeMinSize is the fixed prefix of a ParaShape record payload.
const paraShapeMinSize = 54

// parseParaShape decodes the 54-byte fixed layout; attr2/attr3/line space
// type are version-dependent trailing fields.
func parseParaShape(payload []byte) (hwpdoc.ParaShape, bool) {
	var ps hwpdoc.ParaShape
	if len(payload) < paraShapeMinSize {
		return ps, false
	}
	r := newBinReader(payload)
	ps.Attr = hwpdoc.ParaShapeAttr(r.u32())
	ps.MarginLeft = r.i32()
	ps.MarginRight = r.i32()
	ps.Indent = r.i32()
	ps.MarginTop = r.i32()
	ps.MarginBottom = r.i32()
	ps.LineSpacing = r.i32()
	ps.TabDefID = r.u16()
	ps.ParaHeadID = r.u16()
	ps.BorderFillID = r.u16()
	ps.BorderSpaceLeft = r.i16()
	ps.BorderSpaceRight = r.i16()
	ps.BorderSpaceTop = r.i16()
	ps.BorderSpaceBottom = r.i16()
	if r.remaining() >= 4 {
		ps.Attr2 = r.u32()
	}
	if r.remaining() >= 4 {
		ps.Attr3 = r.u32()
	}
	if r.remaining() >= 4 {
		ps.LineSpaceType = r.u32()
	}
	return ps, r.ok
}

// parseBinData decodes a BinData declaration. Link assets carry absolute
// and relative path strings; all kinds may carry an extension that names
// the backing /BinData stream.
func parseBinData(payload []byte, id uint16) (hwpdoc.BinData, bool) {
	var bd hwpdoc.BinData
	if len(payload) < 2 {
		return bd, false
	}
	r := newBinReader(payload)
	bd.ID = id
	bd.Properties = r.u16()
	bd.Kind = hwpdoc.BinDataKindFromBits(bd.Properties)

	if bd.Kind == hwpdoc.BinDataLink {
		bd.AbsPath = r.utf16String()
		bd.RelPath = r.utf16String()
	}
	if r.remaining() >= 2 {
		r.u16() // declared bin id, redundant with the record's position
	}
	if r.remaining() >= 2 {
		bd.Extension = r.utf16String()
	}
	return bd, r.ok
}
