// Package hwpread parses HWP v5 word-processor documents (OLE compound-file
// container) into a structured document model and projects it to plain
// text, semantic markdown, and structured JSON.
//
// Usage:
//
//	pipe := hwpread.New(hwpread.Config{})
//	doc, err := pipe.Extract(ctx, "/path/to/file.hwp")
//	fmt.Println(doc.Metadata.Title, len(doc.Sections), "sections")
package hwpread

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/hazyhaar/hwpread/container"
	"github.com/hazyhaar/hwpread/hwpcore"
	"github.com/hazyhaar/hwpread/hwpdoc"
	"github.com/hazyhaar/hwpread/render"
	"github.com/hazyhaar/hwpread/safeio"
)

// Pipeline is the document parsing engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Extract parses a document file and returns the document model. Header
// gate failures (bad signature, encryption, unsupported version) return an
// error; per-section failures are annotated on the returned document.
func (p *Pipeline) Extract(ctx context.Context, path string) (*hwpdoc.Document, error) {
	path, err := p.resolvePath(path)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("extracting document", "path", path)

	src, err := container.Open(path, p.cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return p.parse(ctx, src)
}

// ExtractReader parses a document from a reader, with the same size gate as
// Extract. The name is used only for the fallback title.
func (p *Pipeline) ExtractReader(ctx context.Context, r io.Reader, name string) (*hwpdoc.Document, error) {
	data, err := safeio.LimitedReadAll(r, p.cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}
	src, err := container.New(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	doc, err := p.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	if doc.Metadata.Title == "" && name != "" {
		doc.Metadata.Title = filepath.Base(name)
	}
	return doc, nil
}

func (p *Pipeline) parse(ctx context.Context, src *container.Reader) (*hwpdoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := hwpcore.Parse(src, p.cfg.limits())
	if err != nil {
		return nil, err
	}
	if p.cfg.LoadBinData {
		p.loadBinData(src, doc)
	}
	if len(doc.Failures) > 0 {
		p.logger.Warn("document parsed partially",
			"sections", len(doc.Sections), "failed", len(doc.Failures))
	}
	return doc, nil
}

// loadBinData pulls embedded asset streams into the model. A missing or
// oversized asset degrades to a warning; pictures are cosmetic.
func (p *Pipeline) loadBinData(src hwpcore.Source, doc *hwpdoc.Document) {
	for i := range doc.BinData {
		bd := &doc.BinData[i]
		if bd.Kind == hwpdoc.BinDataLink {
			continue
		}
		data, err := hwpcore.BinDataPayload(src, *bd, p.cfg.limits())
		if err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("bin data %d: %v", bd.ID, err))
			continue
		}
		bd.Data = data
	}
}

// Text extracts the document's plain text.
func (p *Pipeline) Text(ctx context.Context, path string) (string, error) {
	doc, err := p.Extract(ctx, path)
	if err != nil {
		return "", err
	}
	return render.Text(doc), nil
}

// Markdown extracts the document as markdown in the requested flavor.
func (p *Pipeline) Markdown(ctx context.Context, path string, format render.MarkdownFormat) (string, error) {
	doc, err := p.Extract(ctx, path)
	if err != nil {
		return "", err
	}
	return render.MarkdownAs(doc, format), nil
}

// JSON extracts the document as structured JSON.
func (p *Pipeline) JSON(ctx context.Context, path string, pretty bool) ([]byte, error) {
	doc, err := p.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	if pretty {
		return render.JSONIndent(doc)
	}
	return render.JSON(doc)
}

// Inspection summarizes a document without returning its content.
type Inspection struct {
	Title         string `json:"title,omitempty"`
	Author        string `json:"author,omitempty"`
	Created       string `json:"created,omitempty"`
	Version       string `json:"version"`
	Compressed    bool   `json:"compressed"`
	Sections      int    `json:"sections"`
	Paragraphs    int    `json:"paragraphs"`
	Tables        int    `json:"tables"`
	BinDataCount  int    `json:"bin_data_count"`
	Warnings      int    `json:"warnings"`
	FailedSection int    `json:"failed_sections"`
}

// Inspect parses a document and returns its summary.
func (p *Pipeline) Inspect(ctx context.Context, path string) (*Inspection, error) {
	doc, err := p.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Inspection{
		Title:         doc.Metadata.Title,
		Author:        doc.Metadata.Author,
		Created:       doc.Metadata.Created,
		Version:       doc.Header.Version.String(),
		Compressed:    doc.Header.Properties.IsCompressed(),
		Sections:      len(doc.Sections),
		Paragraphs:    doc.ParagraphCount(),
		Tables:        doc.TableCount(),
		BinDataCount:  len(doc.BinData),
		Warnings:      len(doc.Warnings),
		FailedSection: len(doc.Failures),
	}, nil
}

// resolvePath applies the configured base-directory restriction.
func (p *Pipeline) resolvePath(path string) (string, error) {
	if p.cfg.BaseDir == "" {
		return path, nil
	}
	return safeio.SafePath(p.cfg.BaseDir, path)
}
