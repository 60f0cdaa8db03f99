package hwpcore

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// nestedTableStream builds the canonical nesting case: a paragraph of text
// followed by a 1x1 table whose cell holds its own paragraph.
func nestedTableStream() []byte {
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 1, utf16le("hi"))
	buf = EncodeRecord(buf, hwpdoc.TagTable, 1, tablePayload(1, 1))
	buf = EncodeRecord(buf, hwpdoc.TagListHeader, 2, cellPayload(1, 1, 100, 50))
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 3, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 4, utf16le("x"))
	return buf
}

func TestReconstructSection_NestedTable(t *testing.T) {
	sec, warns, err := ReconstructSection(nestedTableStream(), 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("warnings: %v", warns)
	}
	if len(sec.Paragraphs) != 1 {
		t.Fatalf("paragraphs: got %d, want 1", len(sec.Paragraphs))
	}

	p := sec.Paragraphs[0]
	if p.Text != "hi" {
		t.Fatalf("text: got %q", p.Text)
	}
	if len(p.Controls) != 1 {
		t.Fatalf("controls: got %d, want 1", len(p.Controls))
	}

	ctl := p.Controls[0]
	if ctl.Kind != hwpdoc.ControlTable || ctl.Table == nil {
		t.Fatalf("control: %+v", ctl)
	}
	if len(ctl.Table.Cells) != 1 {
		t.Fatalf("cells: got %d, want 1", len(ctl.Table.Cells))
	}

	cell := ctl.Table.Cells[0]
	if cell.Row != 0 || cell.Col != 0 {
		t.Fatalf("cell position: (%d,%d)", cell.Row, cell.Col)
	}
	if len(cell.Paragraphs) != 1 || cell.Paragraphs[0].Text != "x" {
		t.Fatalf("cell paragraphs: %+v", cell.Paragraphs)
	}
}

func TestReconstructSection_CtrlHeaderTable(t *testing.T) {
	// The same tree with an explicit control header in front of the table
	// record, which is how current producers write it.
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagCtrlHeader, 1, ctrlHeaderPayload("tbl "))
	buf = EncodeRecord(buf, hwpdoc.TagTable, 2, tablePayload(2, 2))
	buf = EncodeRecord(buf, hwpdoc.TagListHeader, 2, cellPayload(1, 1, 10, 10))
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 3, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 4, utf16le("a"))
	buf = EncodeRecord(buf, hwpdoc.TagListHeader, 2, cellPayload(1, 1, 10, 10))
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 3, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 4, utf16le("b"))

	sec, _, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sec.Paragraphs) != 1 {
		t.Fatalf("paragraphs: got %d", len(sec.Paragraphs))
	}
	ctl := sec.Paragraphs[0].Controls[0]
	if ctl.CtrlID != "tbl " || ctl.Table == nil {
		t.Fatalf("control: %+v", ctl)
	}
	if len(ctl.Table.Cells) != 2 {
		t.Fatalf("cells: got %d, want 2", len(ctl.Table.Cells))
	}
	// Positional assignment on a 2-wide grid.
	if ctl.Table.Cells[0].Col != 0 || ctl.Table.Cells[1].Col != 1 {
		t.Fatalf("cell cols: %d, %d", ctl.Table.Cells[0].Col, ctl.Table.Cells[1].Col)
	}
	if got := ctl.Table.Cells[1].Paragraphs[0].Text; got != "b" {
		t.Fatalf("cell 1 text: %q", got)
	}
}

func TestReconstructSection_Idempotent(t *testing.T) {
	buf := nestedTableStream()
	a, _, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Fatalf("reconstruction is not deterministic:\n%s\n%s", aj, bj)
	}
}

func TestReconstructSection_LevelSkipClamped(t *testing.T) {
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 5, utf16le("deep"))

	sec, warns, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "clamped") {
		t.Fatalf("warnings: %v", warns)
	}
	if len(sec.Paragraphs) != 1 || sec.Paragraphs[0].Text != "deep" {
		t.Fatalf("paragraphs: %+v", sec.Paragraphs)
	}
}

func TestReconstructSection_LevelSkipStrict(t *testing.T) {
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 5, utf16le("deep"))

	var pe *ParseError
	_, _, err := ReconstructSection(buf, 0, Limits{StrictNesting: true})
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ParseError", err)
	}
}

func TestReconstructSection_DepthCeiling(t *testing.T) {
	var pe *ParseError
	_, _, err := ReconstructSection(nestedTableStream(), 0, Limits{MaxDepth: 2})
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want ParseError", err)
	}
}

func TestReconstructSection_OrphanRecords(t *testing.T) {
	// Text and control records with no enclosing paragraph are dropped with
	// a warning, not an error.
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 0, utf16le("stray"))
	buf = EncodeRecord(buf, hwpdoc.TagCtrlHeader, 0, ctrlHeaderPayload("gso"))

	sec, warns, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sec.Paragraphs) != 0 {
		t.Fatalf("paragraphs: %+v", sec.Paragraphs)
	}
	if len(warns) != 2 {
		t.Fatalf("warnings: %v", warns)
	}
}

func TestReconstructSection_ListHeaderOutsideTable(t *testing.T) {
	// List headers also front captions; without a table control they must
	// not open a cell.
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagCtrlHeader, 1, ctrlHeaderPayload("gso"))
	buf = EncodeRecord(buf, hwpdoc.TagListHeader, 2, cellPayload(1, 1, 10, 10))
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 3, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagParaText, 4, utf16le("caption"))

	sec, _, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range sec.Paragraphs {
		for _, ctl := range p.Controls {
			if ctl.Table != nil {
				t.Fatalf("caption list header opened a table: %+v", ctl)
			}
		}
	}
}

func TestReconstructSection_Picture(t *testing.T) {
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagCtrlHeader, 1, ctrlHeaderPayload("gso"))
	pic := []byte{3, 0} // bin data id 3
	buf = EncodeRecord(buf, hwpdoc.TagShapeComponentPicture, 2, pic)

	sec, _, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	ctl := sec.Paragraphs[0].Controls[0]
	if ctl.Kind != hwpdoc.ControlPicture || ctl.Picture == nil || ctl.Picture.BinDataID != 3 {
		t.Fatalf("control: %+v", ctl)
	}
}
