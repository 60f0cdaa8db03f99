package hwpcore

import (
	"encoding/binary"
	"testing"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

func TestIsOLECtrlHeader(t *testing.T) {
	tests := []struct {
		payload []byte
		want    bool
	}{
		{[]byte("$ole"), true},
		{append([]byte("$ole"), 1, 2, 3), true},
		{ctrlHeaderPayload("tbl "), false},
		{[]byte("$o"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isOLECtrlHeader(tt.payload); got != tt.want {
			t.Fatalf("isOLECtrlHeader(%q): got %v, want %v", tt.payload, got, tt.want)
		}
	}
}

func TestParseChart_PrefersOLEDeclaration(t *testing.T) {
	bin := []hwpdoc.BinData{
		{ID: 0, Kind: hwpdoc.BinDataEmbedding, Extension: "png"},
		{ID: 1, Kind: hwpdoc.BinDataEmbedding, Extension: "OLE"},
	}
	var payload []byte
	payload = binary.LittleEndian.AppendUint16(payload, 0)
	payload = binary.LittleEndian.AppendUint16(payload, 1)

	c := parseChart(payload, bin)
	if c.BinDataID != 1 {
		t.Fatalf("bin data id: got %d, want 1", c.BinDataID)
	}
	if c.Note != "" {
		t.Fatalf("note: %q", c.Note)
	}
}

func TestParseChart_FallsBackToFirstInRange(t *testing.T) {
	bin := []hwpdoc.BinData{
		{ID: 0, Kind: hwpdoc.BinDataEmbedding, Extension: "png"},
	}
	var payload []byte
	payload = binary.LittleEndian.AppendUint16(payload, 9) // out of range
	payload = binary.LittleEndian.AppendUint16(payload, 0)

	c := parseChart(payload, bin)
	if c.BinDataID != 0 {
		t.Fatalf("bin data id: got %d, want 0", c.BinDataID)
	}
}

func TestParseChart_NoCandidate(t *testing.T) {
	c := parseChart([]byte{0xFF, 0xFF}, []hwpdoc.BinData{{ID: 0}})
	if c.BinDataID != -1 {
		t.Fatalf("bin data id: got %d, want -1", c.BinDataID)
	}
	if c.Note != "bin data id not found" {
		t.Fatalf("note: %q", c.Note)
	}
}

func TestChartStreamKind_NotCompound(t *testing.T) {
	if kind, ok := chartStreamKind([]byte("definitely not an ole storage")); ok {
		t.Fatalf("kind: got %q, want none", kind)
	}
	if _, ok := chartStreamKind(nil); ok {
		t.Fatal("nil input classified")
	}
}

func TestReconstructSection_ChartPlaceholder(t *testing.T) {
	bin := []hwpdoc.BinData{
		{ID: 0, Kind: hwpdoc.BinDataEmbedding, Extension: "ole"},
	}
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagCtrlHeader, 1, []byte("$ole"))
	buf = EncodeRecord(buf, hwpdoc.TagShapeComponentOLE, 2, binary.LittleEndian.AppendUint16(nil, 0))

	sec, warns, err := reconstructSection(buf, 0, bin, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Fatalf("warnings: %v", warns)
	}
	if len(sec.Paragraphs) != 1 || len(sec.Paragraphs[0].Controls) != 1 {
		t.Fatalf("tree shape: %+v", sec)
	}
	ctl := sec.Paragraphs[0].Controls[0]
	if ctl.Kind != hwpdoc.ControlChart || ctl.Chart == nil {
		t.Fatalf("control: %+v", ctl)
	}
	if ctl.CtrlID != "$ole" {
		t.Fatalf("ctrl id: %q", ctl.CtrlID)
	}
	if ctl.Chart.BinDataID != 0 {
		t.Fatalf("bin data id: got %d, want 0", ctl.Chart.BinDataID)
	}
}

func TestReconstructSection_OLEComponentWithoutChartHeader(t *testing.T) {
	// A shape component under an ordinary drawing control is not a chart.
	var buf []byte
	buf = EncodeRecord(buf, hwpdoc.TagParaHeader, 0, paraHeaderPayload(0, 0))
	buf = EncodeRecord(buf, hwpdoc.TagCtrlHeader, 1, ctrlHeaderPayload("gso"))
	buf = EncodeRecord(buf, hwpdoc.TagShapeComponentOLE, 2, binary.LittleEndian.AppendUint16(nil, 0))

	sec, _, err := ReconstructSection(buf, 0, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	ctl := sec.Paragraphs[0].Controls[0]
	if ctl.Kind != hwpdoc.ControlUnknown || ctl.Chart != nil {
		t.Fatalf("control: %+v", ctl)
	}
}
