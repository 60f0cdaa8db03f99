package render

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// MarkdownFormat selects the markdown projection flavor.
type MarkdownFormat string

const (
	// MarkdownSemantic keeps headings, inline styles, and tables.
	MarkdownSemantic MarkdownFormat = "semantic-markdown"
	// MarkdownPlain is the plain-text projection.
	MarkdownPlain MarkdownFormat = "plain"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown renders the document as semantic markdown via the HTML
// intermediate. If conversion fails or comes back empty, the plain-text
// projection is returned instead, so callers always get the text.
func Markdown(doc *hwpdoc.Document) string {
	out, err := mdConverter.ConvertString(HTML(doc))
	if err != nil || strings.TrimSpace(out) == "" {
		return Text(doc)
	}
	return strings.TrimSpace(out) + "\n"
}

// MarkdownAs renders the requested flavor; unknown formats fall back to
// semantic markdown.
func MarkdownAs(doc *hwpdoc.Document, format MarkdownFormat) string {
	if format == MarkdownPlain {
		return Text(doc)
	}
	return Markdown(doc)
}
