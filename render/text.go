// Package render projects a parsed document into plain text, markdown,
// and structured JSON. All projections are pure functions of the document;
// the same input always produces byte-identical output.
package render

import (
	"fmt"
	"iter"
	"strings"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// Lines yields the document's plain-text lines lazily: one line per
// non-empty paragraph, with controls rendered as a short bracketed
// placeholder followed by their own content lines.
func Lines(doc *hwpdoc.Document) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, sec := range doc.Sections {
			for i := range sec.Paragraphs {
				if !paragraphLines(doc, &sec.Paragraphs[i], yield) {
					return
				}
			}
		}
	}
}

// Text renders the whole document as newline-joined plain text.
func Text(doc *hwpdoc.Document) string {
	var sb strings.Builder
	for line := range Lines(doc) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func paragraphLines(doc *hwpdoc.Document, p *hwpdoc.Paragraph, yield func(string) bool) bool {
	if p.Text != "" {
		if !yield(p.Text) {
			return false
		}
	}
	for _, ctl := range p.Controls {
		switch {
		case ctl.Table != nil:
			if !yield(fmt.Sprintf("[table %dx%d]", ctl.Table.Rows, ctl.Table.Cols)) {
				return false
			}
			for _, cell := range ctl.Table.Cells {
				for i := range cell.Paragraphs {
					if !paragraphLines(doc, &cell.Paragraphs[i], yield) {
						return false
					}
				}
			}
		case ctl.Picture != nil:
			if !yield(pictureLine(doc, ctl.Picture)) {
				return false
			}
		case ctl.Chart != nil:
			if !yield(chartLine(ctl.Chart)) {
				return false
			}
		}
	}
	return true
}

func pictureLine(doc *hwpdoc.Document, pic *hwpdoc.Picture) string {
	if bd := doc.BinDataAt(pic.BinDataID); bd != nil && bd.Extension != "" {
		return fmt.Sprintf("[picture %s]", bd.StreamName())
	}
	return "[picture]"
}

func chartLine(c *hwpdoc.Chart) string {
	if c.StreamType != "" {
		return fmt.Sprintf("[chart %s]", c.StreamType)
	}
	return "[chart]"
}
