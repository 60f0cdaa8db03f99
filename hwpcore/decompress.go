package hwpcore

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Decompress inflates a zlib-compressed section stream under a hard output
// ceiling. Inflation is incremental so a compression bomb is rejected as
// soon as its output crosses the ceiling, before the full expansion is
// materialized.
func Decompress(data []byte, maxBytes int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, parseErrorf(0, "decompress: %v", err)
	}
	defer zr.Close()

	out := make([]byte, 0, min(len(data)*4, maxBytes))
	buf := make([]byte, 8192)
	for {
		n, err := zr.Read(buf)
		if n > 0 {
			if len(out)+n > maxBytes {
				return nil, sizeLimitf("decompressed section exceeds %d bytes", maxBytes)
			}
			out = append(out, buf[:n]...)
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, parseErrorf(len(out), "decompress: %v", err)
		}
	}
}

// SectionBytes returns the record buffer for one section stream: inflated
// when the header's compression flag is set, otherwise the raw bytes. Both
// paths enforce the same ceiling.
func SectionBytes(raw []byte, compressed bool, maxBytes int) ([]byte, error) {
	if compressed {
		return Decompress(raw, maxBytes)
	}
	if len(raw) > maxBytes {
		return nil, sizeLimitf("uncompressed section is %d bytes, limit %d", len(raw), maxBytes)
	}
	return raw, nil
}
