package hwpcore

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// Source yields the raw bytes of named container streams. Implementations
// return ErrStreamNotFound (possibly wrapped) for absent streams; any other
// error is treated as an I/O failure.
type Source interface {
	Stream(name string) ([]byte, error)
}

// Sizer is optionally implemented by sources that know the total container
// size, enabling the file-size gate before any stream is read.
type Sizer interface {
	Size() int64
}

// MetadataSource is optionally implemented by sources that can decode the
// summary information stream.
type MetadataSource interface {
	Metadata() hwpdoc.Metadata
}

// Well-known stream names inside the container.
const (
	StreamFileHeader = "FileHeader"
	StreamDocInfo    = "DocInfo"
)

// SectionStreamName returns the container path of the i-th BodyText stream.
func SectionStreamName(i int) string {
	return fmt.Sprintf("BodyText/Section%d", i)
}

// Parse reads a full document from src. Header-stage errors (bad signature,
// unsupported version, encryption, distribution protection, file too large)
// abort the whole document. After the header is accepted the parse degrades:
// a broken DocInfo leaves the style tables empty, and a broken section is
// replaced by an empty one with a SectionFailure annotation, so one corrupt
// section never costs the rest of the document.
func Parse(src Source, lim Limits) (*hwpdoc.Document, error) {
	lim = lim.withDefaults()

	if s, ok := src.(Sizer); ok {
		if sz := s.Size(); sz > lim.MaxFileSize {
			return nil, sizeLimitf("file is %d bytes, limit %d", sz, lim.MaxFileSize)
		}
	}

	rawHeader, err := src.Stream(StreamFileHeader)
	if err != nil {
		return nil, fmt.Errorf("read FileHeader: %w", err)
	}
	hdr, err := ParseFileHeader(rawHeader)
	if err != nil {
		return nil, err
	}

	doc := &hwpdoc.Document{Header: hdr}
	if m, ok := src.(MetadataSource); ok {
		doc.Metadata = m.Metadata()
	}

	compressed := hdr.Properties.IsCompressed()

	if raw, err := src.Stream(StreamDocInfo); err == nil {
		info, err := parseDocInfoStream(raw, compressed, lim)
		if err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("docinfo: %v", err))
		} else {
			doc.CharShapes = info.CharShapes
			doc.ParaShapes = info.ParaShapes
			doc.BinData = info.BinData
		}
	}

	// Section streams are numbered densely from zero; the first missing
	// index ends the enumeration.
	var raws [][]byte
	for i := 0; i < lim.MaxSections; i++ {
		raw, err := src.Stream(SectionStreamName(i))
		if err != nil {
			if errors.Is(err, ErrStreamNotFound) {
				break
			}
			return nil, fmt.Errorf("read section %d: %w", i, err)
		}
		raws = append(raws, raw)
	}

	// Sections are independent once the shared tables are built; parse them
	// in parallel and slot results by index so output order is stable.
	results := make([]sectionResult, len(raws))
	var g errgroup.Group
	for i, raw := range raws {
		g.Go(func() error {
			results[i] = parseSection(raw, i, compressed, doc.BinData, lim)
			return nil
		})
	}
	_ = g.Wait()

	doc.Sections = make([]hwpdoc.Section, len(raws))
	for i, res := range results {
		doc.Warnings = append(doc.Warnings, res.warnings...)
		if res.err != nil {
			doc.Sections[i] = hwpdoc.Section{Index: i}
			doc.Failures = append(doc.Failures, hwpdoc.SectionFailure{
				Index: i,
				Kind:  FailureKind(res.err),
				Error: res.err.Error(),
			})
			continue
		}
		doc.Sections[i] = res.section
	}
	resolveCharts(src, doc)
	return doc, nil
}

type sectionResult struct {
	section  hwpdoc.Section
	warnings []string
	err      error
}

func parseSection(raw []byte, index int, compressed bool, bin []hwpdoc.BinData, lim Limits) sectionResult {
	buf, err := SectionBytes(raw, compressed, lim.MaxSectionBytes)
	if err != nil {
		return sectionResult{err: err}
	}
	sec, warns, err := reconstructSection(buf, index, bin, lim)
	return sectionResult{section: sec, warnings: warns, err: err}
}

func parseDocInfoStream(raw []byte, compressed bool, lim Limits) (*DocInfo, error) {
	buf, err := SectionBytes(raw, compressed, lim.MaxSectionBytes)
	if err != nil {
		return nil, err
	}
	return ParseDocInfo(buf, lim.MaxRecords)
}

// BinDataPayload loads the backing stream of an embedded binary asset,
// inflating it when its declaration marks it compressed. Linked assets have
// no embedded stream.
func BinDataPayload(src Source, bd hwpdoc.BinData, lim Limits) ([]byte, error) {
	lim = lim.withDefaults()
	if bd.Kind == hwpdoc.BinDataLink {
		return nil, fmt.Errorf("hwpcore: bin data %d is a link, no embedded stream", bd.ID)
	}
	name := bd.StreamName()
	if name == "" {
		return nil, fmt.Errorf("hwpcore: bin data %d has no extension: %w", bd.ID, ErrStreamNotFound)
	}
	raw, err := src.Stream(name)
	if err != nil {
		return nil, err
	}
	return SectionBytes(raw, bd.IsCompressed(), lim.MaxSectionBytes)
}
