// Package hwpcore implements the HWP v5 binary decoding pipeline: header
// validation, bounded section decompression, record decoding, and the
// level-driven reconstruction of the nested document tree.
//
// The package never opens files itself; it consumes byte streams through the
// Source interface and returns a hwpdoc.Document. Malformed or hostile input
// yields a typed error, never a panic.
package hwpcore

import (
	"errors"
	"fmt"
)

// Header-stage errors. All abort the whole document.
var (
	ErrInvalidSignature   = errors.New("hwpcore: not an HWP document (signature mismatch)")
	ErrUnsupportedVersion = errors.New("hwpcore: unsupported document version (major < 5)")
	ErrEncrypted          = errors.New("hwpcore: encrypted documents are not supported")
	ErrDistributionOnly   = errors.New("hwpcore: distribution-only documents are not supported")
)

// ErrSizeLimit marks a resource ceiling being hit (decompressed bytes,
// record count, section count, input size). Expected for hostile input.
var ErrSizeLimit = errors.New("hwpcore: size limit exceeded")

// ErrStreamNotFound is returned by a Source when the named stream does not
// exist in the container.
var ErrStreamNotFound = errors.New("hwpcore: stream not found")

// ParseError reports malformed record framing or payload, with the byte
// offset where decoding stopped.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hwpcore: parse error at offset %d: %s", e.Offset, e.Msg)
}

func parseErrorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func sizeLimitf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSizeLimit, fmt.Sprintf(format, args...))
}

// FailureKind classifies an error for section failure annotations and scan
// manifests.
func FailureKind(err error) string {
	var pe *ParseError
	switch {
	case errors.Is(err, ErrInvalidSignature), errors.Is(err, ErrUnsupportedVersion),
		errors.Is(err, ErrEncrypted), errors.Is(err, ErrDistributionOnly):
		return "unsupported"
	case errors.Is(err, ErrSizeLimit):
		return "size_limit"
	case errors.As(err, &pe):
		return "parse_error"
	case errors.Is(err, ErrStreamNotFound):
		return "stream_not_found"
	default:
		return "io_error"
	}
}
