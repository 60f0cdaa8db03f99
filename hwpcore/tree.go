package hwpcore

import (
	"fmt"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

type frameKind int

const (
	frameParagraph frameKind = iota
	frameControl
	frameCell
)

// frame is one open node on the reconstruction stack. The value is owned by
// the frame until it closes, at which point it is appended to its parent's
// container; nothing else holds a pointer into it while it is open.
type frame struct {
	kind  frameKind
	level uint16
	para  hwpdoc.Paragraph
	ctl   hwpdoc.Control
	cell  hwpdoc.TableCell
	// cells counts grid positions already taken, for positional row/col
	// assignment of list-header cells.
	cells int
	// oleChart marks a control header that announced an embedded OLE
	// object, so a following shape component opens a chart placeholder.
	oleChart bool
}

// treeBuilder turns the flat record sequence of one BodyText stream back
// into the nested paragraph tree. Record levels drive the stack: a record
// whose level is at or below the top frame's level closes that frame.
type treeBuilder struct {
	lim      Limits
	bin      []hwpdoc.BinData
	section  hwpdoc.Section
	stack    []*frame
	warnings []string
}

// ReconstructSection rebuilds the paragraph tree for one decompressed
// BodyText stream. Warnings report recoverable oddities such as level
// skips; the error return is terminal for the section only.
func ReconstructSection(buf []byte, index int, lim Limits) (hwpdoc.Section, []string, error) {
	return reconstructSection(buf, index, nil, lim)
}

// reconstructSection is ReconstructSection with the document's BinData
// table, which chart placeholders validate their id candidates against.
func reconstructSection(buf []byte, index int, bin []hwpdoc.BinData, lim Limits) (hwpdoc.Section, []string, error) {
	lim = lim.withDefaults()
	b := &treeBuilder{lim: lim, bin: bin, section: hwpdoc.Section{Index: index}}
	sc := NewRecordScanner(buf, lim.MaxRecords)
	for sc.Scan() {
		if err := b.handle(sc.Record()); err != nil {
			return hwpdoc.Section{Index: index}, b.warnings, err
		}
	}
	if err := sc.Err(); err != nil {
		return hwpdoc.Section{Index: index}, b.warnings, err
	}
	// End of stream closes every open frame, innermost first.
	for len(b.stack) > 0 {
		b.closeTop()
	}
	return b.section, b.warnings, nil
}

func (b *treeBuilder) handle(rec Record) error {
	lvl := rec.Header.Level

	for len(b.stack) > 0 && lvl <= b.top().level {
		b.closeTop()
	}

	// A record more than one level deeper than its parent skipped levels.
	// Clamp it to the expected depth so the tree stays well formed.
	var expected uint16
	if len(b.stack) > 0 {
		expected = b.top().level + 1
	}
	if lvl > expected {
		if b.lim.StrictNesting {
			return parseErrorf(rec.Offset, "record level %d skips expected level %d", lvl, expected)
		}
		b.warnf("record at offset %d clamped from level %d to %d", rec.Offset, lvl, expected)
		lvl = expected
	}

	switch rec.Header.Tag {
	case hwpdoc.TagParaHeader:
		h := parseParaHeader(rec.Payload)
		return b.push(rec.Offset, &frame{
			kind:  frameParagraph,
			level: lvl,
			para: hwpdoc.Paragraph{
				ParaShapeID: h.paraShapeID,
				StyleID:     uint16(h.styleID),
			},
		})

	case hwpdoc.TagParaText:
		p := b.nearest(frameParagraph)
		if p == nil {
			b.warnf("text record at offset %d outside any paragraph", rec.Offset)
			return nil
		}
		text, err := parseParaText(rec.Payload)
		if err != nil {
			return err
		}
		p.para.Text += text

	case hwpdoc.TagParaCharShape:
		p := b.nearest(frameParagraph)
		if p == nil {
			b.warnf("char shape record at offset %d outside any paragraph", rec.Offset)
			return nil
		}
		p.para.CharShapeRefs = append(p.para.CharShapeRefs, parseCharShapeRefs(rec.Payload)...)

	case hwpdoc.TagCtrlHeader:
		if b.nearest(frameParagraph) == nil {
			b.warnf("control at offset %d outside any paragraph", rec.Offset)
			return nil
		}
		f := &frame{
			kind:  frameControl,
			level: lvl,
			ctl:   hwpdoc.Control{Kind: hwpdoc.ControlUnknown, CtrlID: parseCtrlID(rec.Payload)},
		}
		if isOLECtrlHeader(rec.Payload) {
			f.oleChart = true
			f.ctl.CtrlID = oleCtrlID
		}
		return b.push(rec.Offset, f)

	case hwpdoc.TagTable:
		t, err := parseTable(rec.Payload)
		if err != nil {
			return err
		}
		if f := b.nearest(frameControl); f != nil {
			f.ctl.Kind = hwpdoc.ControlTable
			f.ctl.Table = t
			f.cells = len(t.Cells)
			return nil
		}
		// Some producers emit the table record without a control header.
		if b.nearest(frameParagraph) == nil {
			b.warnf("table at offset %d outside any paragraph", rec.Offset)
			return nil
		}
		return b.push(rec.Offset, &frame{
			kind:  frameControl,
			level: lvl,
			ctl:   hwpdoc.Control{Kind: hwpdoc.ControlTable, CtrlID: tableCtrlID, Table: t},
			cells: len(t.Cells),
		})

	case hwpdoc.TagListHeader:
		// List headers also front captions and text boxes; only the ones
		// under a table open a cell.
		f := b.nearest(frameControl)
		if f == nil || f.ctl.Table == nil {
			return nil
		}
		cell := parseCellPayload(rec.Payload)
		cols := f.ctl.Table.Cols
		if cols == 0 {
			cols = 1
		}
		pos := f.cells
		f.cells++
		cell.Row = uint16(pos / int(cols))
		cell.Col = uint16(pos % int(cols))
		return b.push(rec.Offset, &frame{kind: frameCell, level: lvl, cell: cell})

	case hwpdoc.TagShapeComponentOLE:
		// Only charts announced by an OLE control header become
		// placeholders; other OLE embeddings stay unknown controls.
		f := b.nearest(frameControl)
		if f == nil || !f.oleChart {
			return nil
		}
		f.ctl.Kind = hwpdoc.ControlChart
		f.ctl.Chart = parseChart(rec.Payload, b.bin)

	case hwpdoc.TagShapeComponentPicture:
		f := b.nearest(frameControl)
		if f == nil {
			b.warnf("picture at offset %d outside any control", rec.Offset)
			return nil
		}
		f.ctl.Kind = hwpdoc.ControlPicture
		f.ctl.Picture = parsePicture(rec.Payload)
	}

	return nil
}

func (b *treeBuilder) push(offset int, f *frame) error {
	if len(b.stack) >= b.lim.MaxDepth {
		return parseErrorf(offset, "nesting depth exceeds %d", b.lim.MaxDepth)
	}
	b.stack = append(b.stack, f)
	return nil
}

func (b *treeBuilder) top() *frame { return b.stack[len(b.stack)-1] }

// nearest returns the topmost open frame of the given kind, or nil.
func (b *treeBuilder) nearest(kind frameKind) *frame {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].kind == kind {
			return b.stack[i]
		}
	}
	return nil
}

// closeTop pops the top frame and attaches its value to the parent
// container: paragraphs go to the enclosing cell or the section root,
// controls to the enclosing paragraph, cells to the enclosing table.
func (b *treeBuilder) closeTop() {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]

	switch f.kind {
	case frameParagraph:
		if c := b.nearest(frameCell); c != nil {
			c.cell.Paragraphs = append(c.cell.Paragraphs, f.para)
		} else {
			b.section.Paragraphs = append(b.section.Paragraphs, f.para)
		}
	case frameControl:
		if p := b.nearest(frameParagraph); p != nil {
			p.para.Controls = append(p.para.Controls, f.ctl)
		}
	case frameCell:
		if c := b.nearest(frameControl); c != nil && c.ctl.Table != nil {
			c.ctl.Table.Cells = append(c.ctl.Table.Cells, f.cell)
		}
	}
}

func (b *treeBuilder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}
