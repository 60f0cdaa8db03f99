package hwpcore

// Default resource ceilings. Checked before allocating, not after.
const (
	DefaultMaxFileSize     = 25 * 1024 * 1024
	DefaultMaxSectionBytes = 64 * 1024 * 1024
	DefaultMaxRecords      = 200_000
	DefaultMaxSections     = 256
	DefaultMaxDepth        = 64
)

// Limits is the immutable resource configuration threaded into every parse
// call. Concurrent parses with different ceilings never interfere.
type Limits struct {
	// MaxFileSize caps the whole input file.
	MaxFileSize int64
	// MaxSectionBytes caps the decompressed size of one BodyText stream.
	MaxSectionBytes int
	// MaxRecords caps the record count of one stream.
	MaxRecords int
	// MaxSections caps the number of BodyText streams.
	MaxSections int
	// MaxDepth caps the reconstruction stack depth.
	MaxDepth int
	// StrictNesting turns level-skip clamping into a ParseError instead of
	// a document warning.
	StrictNesting bool
}

// DefaultLimits returns the production ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:     DefaultMaxFileSize,
		MaxSectionBytes: DefaultMaxSectionBytes,
		MaxRecords:      DefaultMaxRecords,
		MaxSections:     DefaultMaxSections,
		MaxDepth:        DefaultMaxDepth,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	if l.MaxSectionBytes <= 0 {
		l.MaxSectionBytes = DefaultMaxSectionBytes
	}
	if l.MaxRecords <= 0 {
		l.MaxRecords = DefaultMaxRecords
	}
	if l.MaxSections <= 0 {
		l.MaxSections = DefaultMaxSections
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	return l
}
