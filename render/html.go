package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// HTML renders the document as a sanitized HTML fragment. This is the
// intermediate form the markdown projection converts from; headings are
// inferred from character size, inline styling from the char shape table.
func HTML(doc *hwpdoc.Document) string {
	var sb strings.Builder
	if doc.Metadata.Title != "" {
		sb.WriteString("<h1>")
		sb.WriteString(html.EscapeString(doc.Metadata.Title))
		sb.WriteString("</h1>\n")
	}
	for _, sec := range doc.Sections {
		for i := range sec.Paragraphs {
			writeParagraphHTML(&sb, doc, &sec.Paragraphs[i])
		}
	}
	return htmlPolicy.Sanitize(sb.String())
}

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowURLSchemes("bin", "http", "https")
	return p
}()

func writeParagraphHTML(sb *strings.Builder, doc *hwpdoc.Document, p *hwpdoc.Paragraph) {
	if strings.TrimSpace(p.Text) != "" {
		tag := headingTag(doc, p)
		sb.WriteString("<" + tag + ">")
		writeRunsHTML(sb, doc, p)
		sb.WriteString("</" + tag + ">\n")
	}
	for _, ctl := range p.Controls {
		switch {
		case ctl.Table != nil:
			writeTableHTML(sb, doc, ctl.Table)
		case ctl.Picture != nil:
			sb.WriteString(fmt.Sprintf(`<img src="bin:%d" alt="%s">`,
				ctl.Picture.BinDataID, html.EscapeString(pictureLine(doc, ctl.Picture))))
			sb.WriteByte('\n')
		case ctl.Chart != nil:
			sb.WriteString("<p>" + html.EscapeString(chartLine(ctl.Chart)) + "</p>\n")
		}
	}
}

// headingTag infers a heading level from the paragraph's leading character
// size: 18pt and up reads as a top heading, 16pt and 14pt as subheadings.
// A bold, centered paragraph is treated as a subheading too.
func headingTag(doc *hwpdoc.Document, p *hwpdoc.Paragraph) string {
	if len(p.CharShapeRefs) == 0 {
		return "p"
	}
	cs := doc.CharShapeAt(p.CharShapeRefs[0].ShapeID)
	switch pt := cs.SizePt(); {
	case pt >= 18:
		return "h1"
	case pt >= 16:
		return "h2"
	case pt >= 14:
		return "h3"
	}
	if cs.Attr.IsBold() && doc.ParaShapeAt(p.ParaShapeID).Attr.Alignment() == hwpdoc.AlignCenter {
		return "h2"
	}
	return "p"
}

// writeRunsHTML splits the paragraph text at its char shape breakpoints and
// wraps each run in the inline tags its style calls for.
func writeRunsHTML(sb *strings.Builder, doc *hwpdoc.Document, p *hwpdoc.Paragraph) {
	runes := []rune(p.Text)
	refs := append([]hwpdoc.CharShapeRef(nil), p.CharShapeRefs...)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Pos < refs[j].Pos })

	if len(refs) == 0 {
		sb.WriteString(html.EscapeString(p.Text))
		return
	}
	for i, ref := range refs {
		start := min(int(ref.Pos), len(runes))
		end := len(runes)
		if i+1 < len(refs) {
			end = min(int(refs[i+1].Pos), len(runes))
		}
		if start >= end {
			continue
		}
		writeRunHTML(sb, string(runes[start:end]), doc.CharShapeAt(ref.ShapeID))
	}
}

func writeRunHTML(sb *strings.Builder, text string, cs hwpdoc.CharShape) {
	var open, shut []string
	wrap := func(tag string) {
		open = append(open, "<"+tag+">")
		shut = append([]string{"</" + tag + ">"}, shut...)
	}
	if cs.Attr.IsBold() {
		wrap("strong")
	}
	if cs.Attr.IsItalic() {
		wrap("em")
	}
	if cs.Attr.UnderlineType() != 0 {
		wrap("u")
	}
	if cs.Attr.StrikethroughType() != 0 {
		wrap("del")
	}
	if cs.Attr.IsSuperscript() {
		wrap("sup")
	}
	if cs.Attr.IsSubscript() {
		wrap("sub")
	}
	for _, t := range open {
		sb.WriteString(t)
	}
	sb.WriteString(html.EscapeString(text))
	for _, t := range shut {
		sb.WriteString(t)
	}
}

// writeTableHTML renders the grid row-major; the first row is emitted as a
// header row. Cell paragraphs nest recursively, so tables in cells work.
func writeTableHTML(sb *strings.Builder, doc *hwpdoc.Document, t *hwpdoc.Table) {
	sb.WriteString("<table>\n")
	for row := uint16(0); row < t.Rows; row++ {
		sb.WriteString("<tr>")
		cellTag := "td"
		if row == 0 {
			cellTag = "th"
		}
		for col := uint16(0); col < t.Cols; col++ {
			cell := t.CellAt(row, col)
			if cell == nil {
				continue
			}
			sb.WriteString("<" + cellTag)
			if cell.ColSpan > 1 {
				fmt.Fprintf(sb, ` colspan="%d"`, cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				fmt.Fprintf(sb, ` rowspan="%d"`, cell.RowSpan)
			}
			sb.WriteString(">")
			for i := range cell.Paragraphs {
				writeParagraphHTML(sb, doc, &cell.Paragraphs[i])
			}
			sb.WriteString("</" + cellTag + ">")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n")
}
