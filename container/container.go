// Package container reads the OLE compound file envelope of an HWP
// document and exposes its streams to the decoding pipeline.
//
// Streams are loaded eagerly while walking the directory once, so a Reader
// is safe for concurrent stream lookups afterwards.
package container

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
	"github.com/richardlehane/msoleps/types"

	"github.com/hazyhaar/hwpread/hwpcore"
	"github.com/hazyhaar/hwpread/hwpdoc"
)

// summaryStreamName is the summary information stream without its leading
// property-set marker byte, which mscfb splits off into Initial.
const summaryStreamName = "HwpSummaryInformation"

// Reader holds the streams of one compound file. It implements
// hwpcore.Source, hwpcore.Sizer and hwpcore.MetadataSource.
type Reader struct {
	size    int64
	streams map[string][]byte
	meta    hwpdoc.Metadata
}

// Open loads the compound file at path. A positive maxSize rejects larger
// files before any parsing. The file is fully indexed and closed before
// Open returns.
func Open(path string, maxSize int64) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && st.Size() > maxSize {
		return nil, fmt.Errorf("%w: file is %d bytes, limit %d", hwpcore.ErrSizeLimit, st.Size(), maxSize)
	}

	r, err := New(f, st.Size())
	if err != nil {
		return nil, err
	}
	if r.meta.Title == "" {
		r.meta.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return r, nil
}

// New indexes a compound file from an in-memory or seekable source.
func New(ra io.ReaderAt, size int64) (*Reader, error) {
	doc, err := mscfb.New(ra)
	if err != nil {
		return nil, fmt.Errorf("container: not a compound file: %w", err)
	}

	r := &Reader{size: size, streams: make(map[string][]byte)}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Size == 0 {
			continue
		}
		data, rerr := io.ReadAll(io.LimitReader(entry, entry.Size))
		if rerr != nil {
			return nil, fmt.Errorf("container: read stream %q: %w", entry.Name, rerr)
		}
		if msoleps.IsMSOLEPS(entry.Initial) && entry.Name == summaryStreamName {
			r.meta = decodeSummary(data)
			continue
		}
		r.streams[streamPath(entry)] = data
	}
	return r, nil
}

func streamPath(entry *mscfb.File) string {
	if len(entry.Path) == 0 {
		return entry.Name
	}
	return strings.Join(entry.Path, "/") + "/" + entry.Name
}

// Stream returns the raw bytes of a named stream.
func (r *Reader) Stream(name string) ([]byte, error) {
	data, ok := r.streams[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", hwpcore.ErrStreamNotFound, name)
	}
	return data, nil
}

// Size returns the container's total byte size.
func (r *Reader) Size() int64 { return r.size }

// Metadata returns the decoded summary information. Absent or unreadable
// summary streams yield the zero value; metadata never fails a parse.
func (r *Reader) Metadata() hwpdoc.Metadata { return r.meta }

// decodeSummary pulls title, author, and creation time out of the OLE
// property set.
func decodeSummary(data []byte) hwpdoc.Metadata {
	var meta hwpdoc.Metadata
	props := msoleps.New()
	if err := props.Reset(bytes.NewReader(data)); err != nil {
		return meta
	}
	for _, prop := range props.Property {
		switch strings.ToLower(prop.Name) {
		case "title":
			meta.Title = strings.TrimSpace(prop.String())
		case "author":
			meta.Author = strings.TrimSpace(prop.String())
		case "createtime", "create time/date":
			if ft, ok := prop.T.(types.FileTime); ok {
				meta.Created = ft.Time().UTC().Format(time.RFC3339)
			} else {
				meta.Created = strings.TrimSpace(prop.String())
			}
		}
	}
	return meta
}
