package hwpdoc

import "fmt"

// Alignment is the paragraph alignment decoded from ParaShapeAttr bits 2-4.
type Alignment string

const (
	AlignJustify    Alignment = "justify"
	AlignLeft       Alignment = "left"
	AlignRight      Alignment = "right"
	AlignCenter     Alignment = "center"
	AlignDistribute Alignment = "distribute"
)

// CharShapeAttr is the character attribute bit-field of a CharShape record.
type CharShapeAttr uint32

func (a CharShapeAttr) IsBold() bool   { return a&(1<<0) != 0 }
func (a CharShapeAttr) IsItalic() bool { return a&(1<<1) != 0 }

// UnderlineType returns bits 2-3 (0 = none, 1 = solid, 2 = dotted, ...).
func (a CharShapeAttr) UnderlineType() uint8 { return uint8(a >> 2 & 0x03) }

func (a CharShapeAttr) IsSuperscript() bool { return a&(1<<10) != 0 }
func (a CharShapeAttr) IsSubscript() bool   { return a&(1<<11) != 0 }

// StrikethroughType returns bits 12-14 (0 = none).
func (a CharShapeAttr) StrikethroughType() uint8 { return uint8(a >> 12 & 0x07) }

// CharShape is a global character style parsed from the DocInfo stream,
// referenced by index from paragraph char-shape breakpoints.
//
// The seven-element arrays are per script class (Hangul, Latin, Hanja,
// Japanese, other, symbol, user).
type CharShape struct {
	FontIDs        [7]uint16     `json:"font_ids"`
	FontScales     [7]uint8      `json:"font_scales"`
	CharSpacing    [7]int8       `json:"char_spacing"`
	RelativeSizes  [7]uint8      `json:"relative_sizes"`
	CharOffsets    [7]int8       `json:"char_offsets"`
	BaseSize       int32         `json:"base_size"` // 1/100 pt
	Attr           CharShapeAttr `json:"attr"`
	ShadowGapX     int8          `json:"shadow_gap_x"`
	ShadowGapY     int8          `json:"shadow_gap_y"`
	TextColor      uint32        `json:"text_color"` // COLORREF 0x00BBGGRR
	UnderlineColor uint32        `json:"underline_color"`
	ShadeColor     uint32        `json:"shade_color"`
	ShadowColor    uint32        `json:"shadow_color"`
	BorderFillID   uint16        `json:"border_fill_id"`
}

// SizePt converts BaseSize to points.
func (c CharShape) SizePt() float64 { return float64(c.BaseSize) / 100 }

// ParaShapeAttr is the paragraph attribute bit-field of a ParaShape record.
type ParaShapeAttr uint32

// LineSpacingType returns bits 0-1 (0 = percent, 1 = fixed, 2 = space only,
// 3 = at least).
func (a ParaShapeAttr) LineSpacingType() uint8 { return uint8(a & 0x03) }

// Alignment decodes bits 2-4.
func (a ParaShapeAttr) Alignment() Alignment {
	switch a >> 2 & 0x07 {
	case 0:
		return AlignJustify
	case 1:
		return AlignLeft
	case 2:
		return AlignRight
	case 3:
		return AlignCenter
	case 4:
		return AlignDistribute
	default:
		return AlignLeft
	}
}

// ParaShape is a global paragraph style parsed from the DocInfo stream.
// Margins and indent are in HWPUNIT (1/7200 inch).
type ParaShape struct {
	Attr              ParaShapeAttr `json:"attr"`
	MarginLeft        int32         `json:"margin_left"`
	MarginRight       int32         `json:"margin_right"`
	Indent            int32         `json:"indent"`
	MarginTop         int32         `json:"margin_top"`
	MarginBottom      int32         `json:"margin_bottom"`
	LineSpacing       int32         `json:"line_spacing"`
	TabDefID          uint16        `json:"tab_def_id"`
	ParaHeadID        uint16        `json:"para_head_id"`
	BorderFillID      uint16        `json:"border_fill_id"`
	BorderSpaceLeft   int16         `json:"border_space_left"`
	BorderSpaceRight  int16         `json:"border_space_right"`
	BorderSpaceTop    int16         `json:"border_space_top"`
	BorderSpaceBottom int16         `json:"border_space_bottom"`
	Attr2             uint32        `json:"attr2"`
	Attr3             uint32        `json:"attr3"`
	LineSpaceType     uint32        `json:"line_space_type"`
}

// BinDataKind is the storage kind of a binary asset (low 2 bits of the
// BinData properties field).
type BinDataKind string

const (
	BinDataLink      BinDataKind = "link"
	BinDataEmbedding BinDataKind = "embedding"
	BinDataStorage   BinDataKind = "storage"
)

// BinDataKindFromBits maps the low 2 property bits to a kind.
func BinDataKindFromBits(bits uint16) BinDataKind {
	switch bits & 0x03 {
	case 0:
		return BinDataLink
	case 1:
		return BinDataEmbedding
	default:
		return BinDataStorage
	}
}

// BinData is a binary asset declared in the DocInfo stream. For embedded
// assets Data holds the stream bytes loaded from /BinData; for links it
// stays empty and the paths identify the external file.
type BinData struct {
	ID         uint16      `json:"id"`
	Properties uint16      `json:"properties"`
	Kind       BinDataKind `json:"kind"`
	AbsPath    string      `json:"abs_path,omitempty"`
	RelPath    string      `json:"rel_path,omitempty"`
	Extension  string      `json:"extension,omitempty"`
	Data       []byte      `json:"data,omitempty"`
}

// IsCompressed reports bit 2 of the properties field.
func (b BinData) IsCompressed() bool { return b.Properties&(1<<2) != 0 }

// StreamName returns the container stream path holding the asset bytes.
// Stream numbering is 1-based relative to the declared id.
func (b BinData) StreamName() string {
	if b.Extension == "" {
		return ""
	}
	return binStreamName(b.ID, b.Extension)
}

func binStreamName(id uint16, ext string) string {
	return fmt.Sprintf("BinData/BIN%04X.%s", id+1, ext)
}
