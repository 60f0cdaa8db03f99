package hwpcore

import (
	"bytes"
	"encoding/binary"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// ParseFileHeader validates the 256-byte FileHeader stream and returns the
// decoded header. Validation order is fixed and short-circuiting:
// signature, then version, then encrypted flag, then distribution flag.
// Rejecting early keeps every other stream of an out-of-scope document
// untouched.
func ParseFileHeader(raw []byte) (hwpdoc.FileHeader, error) {
	var hdr hwpdoc.FileHeader
	if len(raw) < hwpdoc.HeaderSize {
		return hdr, parseErrorf(len(raw), "file header truncated: %d bytes, want %d", len(raw), hwpdoc.HeaderSize)
	}

	sig := raw[:32]
	want := make([]byte, 32)
	copy(want, hwpdoc.Signature)
	if !bytes.Equal(sig, want) {
		return hdr, ErrInvalidSignature
	}

	var vb [4]byte
	copy(vb[:], raw[32:36])
	hdr.Version = hwpdoc.VersionFromBytes(vb)
	if hdr.Version.Major < 5 {
		return hdr, ErrUnsupportedVersion
	}

	hdr.Properties = hwpdoc.DocProperties(binary.LittleEndian.Uint32(raw[36:40]))
	if hdr.Properties.IsEncrypted() {
		return hdr, ErrEncrypted
	}
	if hdr.Properties.IsDistribution() {
		return hdr, ErrDistributionOnly
	}

	return hdr, nil
}
