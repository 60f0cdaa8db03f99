package hwpdoc

// Metadata is document-level information gathered from the summary
// information stream, with a fallback title derived from the file name.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
}

// CharShapeRef marks a character position where styling changes, referencing
// a CharShape by index into the document's table.
type CharShapeRef struct {
	Pos     uint32 `json:"pos"`
	ShapeID uint16 `json:"shape_id"`
}

// ControlKind discriminates the Control variant.
type ControlKind string

const (
	ControlTable   ControlKind = "table"
	ControlPicture ControlKind = "picture"
	ControlChart   ControlKind = "chart"
	ControlUnknown ControlKind = "unknown"
)

// Control is an inline object anchored inside a paragraph. The variant set
// is closed: exactly one of Table, Picture, or Chart is non-nil for the
// matching kind; unknown control codes keep only CtrlID.
type Control struct {
	Kind    ControlKind `json:"kind"`
	CtrlID  string      `json:"ctrl_id,omitempty"`
	Table   *Table      `json:"table,omitempty"`
	Picture *Picture    `json:"picture,omitempty"`
	Chart   *Chart      `json:"chart,omitempty"`
}

// Chart is a placeholder for an embedded OLE chart object. The chart data
// itself lives in a nested compound file under /BinData; the placeholder
// records which declaration backs it and which chart stream that storage
// carries. Note explains why resolution stopped short.
type Chart struct {
	BinDataID  int32  `json:"bin_data_id"` // -1 when no declaration matched
	StreamType string `json:"stream_type,omitempty"`
	Note       string `json:"note,omitempty"`
}

// Picture references an embedded image by BinData id with its display size
// in HWPUNIT.
type Picture struct {
	BinDataID uint16 `json:"bin_data_id"`
	Width     uint32 `json:"width"`
	Height    uint32 `json:"height"`
}

// Table is a grid control. Cells appear in declaration order (row-major).
type Table struct {
	Properties   uint32      `json:"properties"`
	Rows         uint16      `json:"rows"`
	Cols         uint16      `json:"cols"`
	CellSpacing  uint16      `json:"cell_spacing"`
	MarginLeft   int32       `json:"margin_left"`
	MarginRight  int32       `json:"margin_right"`
	MarginTop    int32       `json:"margin_top"`
	MarginBottom int32       `json:"margin_bottom"`
	Cells        []TableCell `json:"cells"`
}

// CellAt returns the cell at (row, col), or nil.
func (t *Table) CellAt(row, col uint16) *TableCell {
	for i := range t.Cells {
		if t.Cells[i].Row == row && t.Cells[i].Col == col {
			return &t.Cells[i]
		}
	}
	return nil
}

// TableCell holds one cell's geometry and its own nested paragraph
// sequence; nested tables appear as controls of those paragraphs.
type TableCell struct {
	Row          uint16      `json:"row"`
	Col          uint16      `json:"col"`
	ColSpan      uint16      `json:"col_span"`
	RowSpan      uint16      `json:"row_span"`
	Width        uint32      `json:"width"`
	Height       uint32      `json:"height"`
	BorderFillID uint16      `json:"border_fill_id"`
	FieldName    string      `json:"field_name,omitempty"`
	Paragraphs   []Paragraph `json:"paragraphs"`
}

// IsMerged reports whether the cell spans more than one grid position.
func (c TableCell) IsMerged() bool { return c.ColSpan > 1 || c.RowSpan > 1 }

// Paragraph is one run of text with its style references and inline
// controls, in source order.
type Paragraph struct {
	Text          string         `json:"text"`
	ParaShapeID   uint16         `json:"para_shape_id"`
	StyleID       uint16         `json:"style_id"`
	CharShapeRefs []CharShapeRef `json:"char_shape_refs,omitempty"`
	Controls      []Control      `json:"controls,omitempty"`
}

// Section is one reconstructed BodyText stream.
type Section struct {
	Index      int         `json:"index"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// SectionFailure records a section that could not be reconstructed. The
// rest of the document is still delivered.
type SectionFailure struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Document is the aggregate root: metadata, the ordered sections, and the
// global style/asset tables. Identifiers inside the tree are indices into
// those tables; resolution is deferred to the *At accessors so the tree
// stays a strict ownership hierarchy.
type Document struct {
	Metadata   Metadata         `json:"metadata"`
	Header     FileHeader       `json:"header"`
	Sections   []Section        `json:"sections"`
	CharShapes []CharShape      `json:"char_shapes,omitempty"`
	ParaShapes []ParaShape      `json:"para_shapes,omitempty"`
	BinData    []BinData        `json:"bin_data,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
	Failures   []SectionFailure `json:"section_failures,omitempty"`
}

// defaultCharShape is returned for out-of-range char shape ids.
var defaultCharShape = CharShape{
	FontScales:    [7]uint8{100, 100, 100, 100, 100, 100, 100},
	RelativeSizes: [7]uint8{100, 100, 100, 100, 100, 100, 100},
	BaseSize:      1000,
}

// defaultParaShape is returned for out-of-range para shape ids.
var defaultParaShape = ParaShape{}

// CharShapeAt resolves a char shape id, degrading to a default style for
// out-of-range ids. Styles are cosmetic; a dangling reference must never
// block text extraction.
func (d *Document) CharShapeAt(id uint16) CharShape {
	if int(id) < len(d.CharShapes) {
		return d.CharShapes[id]
	}
	return defaultCharShape
}

// ParaShapeAt resolves a para shape id, degrading to a default.
func (d *Document) ParaShapeAt(id uint16) ParaShape {
	if int(id) < len(d.ParaShapes) {
		return d.ParaShapes[id]
	}
	return defaultParaShape
}

// BinDataAt resolves a binary asset id, or nil when out of range.
func (d *Document) BinDataAt(id uint16) *BinData {
	if int(id) < len(d.BinData) {
		return &d.BinData[id]
	}
	return nil
}

// ParagraphCount counts paragraphs across all sections, including those
// nested in table cells.
func (d *Document) ParagraphCount() int {
	n := 0
	for _, s := range d.Sections {
		for i := range s.Paragraphs {
			n += 1 + nestedParagraphs(&s.Paragraphs[i])
		}
	}
	return n
}

// TableCount counts tables across all sections, including nested tables.
func (d *Document) TableCount() int {
	n := 0
	for _, s := range d.Sections {
		for i := range s.Paragraphs {
			n += nestedTables(&s.Paragraphs[i])
		}
	}
	return n
}

func nestedParagraphs(p *Paragraph) int {
	n := 0
	for _, ctl := range p.Controls {
		if ctl.Table == nil {
			continue
		}
		for _, cell := range ctl.Table.Cells {
			for i := range cell.Paragraphs {
				n += 1 + nestedParagraphs(&cell.Paragraphs[i])
			}
		}
	}
	return n
}

func nestedTables(p *Paragraph) int {
	n := 0
	for _, ctl := range p.Controls {
		if ctl.Table == nil {
			continue
		}
		n++
		for _, cell := range ctl.Table.Cells {
			for i := range cell.Paragraphs {
				n += nestedTables(&cell.Paragraphs[i])
			}
		}
	}
	return n
}
