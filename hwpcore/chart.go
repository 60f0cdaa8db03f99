package hwpcore

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// oleCtrlID is the control FourCC of an embedded OLE object as it appears
// in the CTRL_HEADER payload.
const oleCtrlID = "$ole"

func isOLECtrlHeader(payload []byte) bool {
	return len(payload) >= 4 && string(payload[:4]) == oleCtrlID
}

// parseChart scans a SHAPE_COMPONENT_OLE payload for the BinData id of the
// chart's backing storage. An id that resolves to an OLE or storage
// declaration wins; otherwise the first in-range candidate is kept.
func parseChart(payload []byte, bin []hwpdoc.BinData) *hwpdoc.Chart {
	c := &hwpdoc.Chart{BinDataID: -1, Note: "bin data id not found"}
	fallback := int32(-1)
	for i := 0; i+1 < len(payload); i += 2 {
		id := binary.LittleEndian.Uint16(payload[i:])
		if int(id) >= len(bin) {
			continue
		}
		bd := bin[id]
		if strings.EqualFold(bd.Extension, "ole") || bd.Kind == hwpdoc.BinDataStorage {
			c.BinDataID = int32(id)
			c.Note = ""
			return c
		}
		if fallback < 0 {
			fallback = int32(id)
		}
	}
	if fallback >= 0 {
		c.BinDataID = fallback
		c.Note = ""
	}
	return c
}

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// chartStreamKind opens the chart's backing bytes as a nested compound file
// and reports which chart stream it carries: "contents" for the binary
// chart format, "ooxml" for the OOXML wrapper.
func chartStreamKind(data []byte) (string, bool) {
	if len(data) < len(oleMagic) || !bytes.Equal(data[:len(oleMagic)], oleMagic) {
		return "", false
	}
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	var hasContents, hasOOXML bool
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "Contents":
			hasContents = true
		case "OOXML.ChartContents", "ChartContents":
			hasOOXML = true
		}
	}
	if hasContents {
		return "contents", true
	}
	if hasOOXML {
		return "ooxml", true
	}
	return "", false
}

// resolveCharts classifies each chart placeholder's backing stream once the
// tree is built. Failures degrade to a note on the placeholder; a chart that
// cannot be resolved never fails the parse.
func resolveCharts(src Source, doc *hwpdoc.Document) {
	for si := range doc.Sections {
		for pi := range doc.Sections[si].Paragraphs {
			resolveParagraphCharts(src, doc, &doc.Sections[si].Paragraphs[pi])
		}
	}
}

func resolveParagraphCharts(src Source, doc *hwpdoc.Document, p *hwpdoc.Paragraph) {
	for ci := range p.Controls {
		ctl := &p.Controls[ci]
		if ctl.Chart != nil {
			resolveChart(src, doc, ctl.Chart)
		}
		if ctl.Table == nil {
			continue
		}
		for i := range ctl.Table.Cells {
			for j := range ctl.Table.Cells[i].Paragraphs {
				resolveParagraphCharts(src, doc, &ctl.Table.Cells[i].Paragraphs[j])
			}
		}
	}
}

func resolveChart(src Source, doc *hwpdoc.Document, c *hwpdoc.Chart) {
	if c.BinDataID < 0 {
		return
	}
	bd := doc.BinDataAt(uint16(c.BinDataID))
	if bd == nil || bd.StreamName() == "" {
		c.Note = "bin data stream not found"
		return
	}
	// Chart storages are read raw; the nested compound file is not subject
	// to the section deflate wrapping.
	raw, err := src.Stream(bd.StreamName())
	if err != nil {
		c.Note = "bin data stream not found"
		return
	}
	kind, ok := chartStreamKind(raw)
	if !ok {
		c.Note = "chart stream not found"
		return
	}
	c.StreamType = kind
	c.Note = "chart data not decoded"
}
