// Package hwpdoc defines the document model produced by parsing an HWP v5
// binary file: the validated file header, the record framing types, and the
// entity graph (sections, paragraphs, controls, styles, binary assets).
//
// Everything here is a pure value type. Parsing lives in hwpcore; rendering
// in render. JSON tags mirror the graph one-to-one so that serializing a
// Document and parsing it back yields an identical graph.
package hwpdoc

import "fmt"

// HeaderSize is the fixed size of the FileHeader stream.
const HeaderSize = 256

// Signature is the 17-byte magic at the start of the FileHeader stream,
// padded with NULs to 32 bytes on disk.
const Signature = "HWP Document File"

// Version is the 4-part format version. Stored on disk at offset 32 as
// [revision, build, minor, major] (little-endian field order).
type Version struct {
	Major    uint8 `json:"major"`
	Minor    uint8 `json:"minor"`
	Build    uint8 `json:"build"`
	Revision uint8 `json:"revision"`
}

// VersionFromBytes decodes the on-disk version field.
func VersionFromBytes(b [4]byte) Version {
	return Version{Major: b[3], Minor: b[2], Build: b[1], Revision: b[0]}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// DocProperties is the property bit-field at offset 36 of the FileHeader.
type DocProperties uint32

// Property bits, per the v5 format.
const (
	PropCompressed      DocProperties = 1 << 0
	PropEncrypted       DocProperties = 1 << 1
	PropDistribution    DocProperties = 1 << 2
	PropScript          DocProperties = 1 << 3
	PropDRM             DocProperties = 1 << 4
	PropXMLTemplate     DocProperties = 1 << 5
	PropHistory         DocProperties = 1 << 6
	PropSignature       DocProperties = 1 << 7
	PropCertEncryption  DocProperties = 1 << 8
	PropCCL             DocProperties = 1 << 11
	PropMobileOptimized DocProperties = 1 << 12
	PropTrackChanges    DocProperties = 1 << 14
	PropKOGL            DocProperties = 1 << 15
)

func (p DocProperties) IsCompressed() bool      { return p&PropCompressed != 0 }
func (p DocProperties) IsEncrypted() bool       { return p&PropEncrypted != 0 }
func (p DocProperties) IsDistribution() bool    { return p&PropDistribution != 0 }
func (p DocProperties) HasScript() bool         { return p&PropScript != 0 }
func (p DocProperties) HasDRM() bool            { return p&PropDRM != 0 }
func (p DocProperties) HasXMLTemplate() bool    { return p&PropXMLTemplate != 0 }
func (p DocProperties) HasHistory() bool        { return p&PropHistory != 0 }
func (p DocProperties) HasSignature() bool      { return p&PropSignature != 0 }
func (p DocProperties) HasCertEncryption() bool { return p&PropCertEncryption != 0 }
func (p DocProperties) HasCCL() bool            { return p&PropCCL != 0 }
func (p DocProperties) IsMobileOptimized() bool { return p&PropMobileOptimized != 0 }
func (p DocProperties) HasTrackChanges() bool   { return p&PropTrackChanges != 0 }
func (p DocProperties) HasKOGL() bool           { return p&PropKOGL != 0 }

// FileHeader is the validated 256-byte header of an HWP document.
// Immutable once parsed.
type FileHeader struct {
	Version    Version       `json:"version"`
	Properties DocProperties `json:"properties"`
}
