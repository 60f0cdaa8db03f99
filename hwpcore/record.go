package hwpcore

import (
	"encoding/binary"

	"github.com/hazyhaar/hwpread/hwpdoc"
)

// Record is one decoded framing unit: header plus a payload slice into the
// decompressed buffer. Payload is not copied.
type Record struct {
	Header  hwpdoc.RecordHeader
	Payload []byte
	// Offset of the record header within the stream, for error reporting.
	Offset int
}

// RecordScanner is a forward-only cursor over a decompressed stream. No
// backtracking; decoding one record is O(1) beyond reading its own bytes.
type RecordScanner struct {
	buf        []byte
	pos        int
	count      int
	maxRecords int
	rec        Record
	err        error
}

// NewRecordScanner decodes records from buf, failing once more than
// maxRecords have been produced.
func NewRecordScanner(buf []byte, maxRecords int) *RecordScanner {
	return &RecordScanner{buf: buf, maxRecords: maxRecords}
}

// Scan advances to the next record. It returns false at end of stream or on
// error; Err distinguishes the two.
func (s *RecordScanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.buf) {
		return false
	}
	if len(s.buf)-s.pos < 4 {
		s.err = parseErrorf(s.pos, "truncated record header: %d bytes left", len(s.buf)-s.pos)
		return false
	}

	start := s.pos
	word := binary.LittleEndian.Uint32(s.buf[s.pos:])
	s.pos += 4

	hdr := hwpdoc.RecordHeader{
		Tag:   uint16(word & 0x3FF),
		Level: uint16(word >> 10 & 0x3FF),
		Size:  word >> 20 & 0xFFF,
	}
	if hdr.Size == hwpdoc.ExtendedSizeSentinel {
		if len(s.buf)-s.pos < 4 {
			s.err = parseErrorf(s.pos, "truncated extended size")
			return false
		}
		hdr.Size = binary.LittleEndian.Uint32(s.buf[s.pos:])
		s.pos += 4
	}

	if uint32(len(s.buf)-s.pos) < hdr.Size {
		s.err = parseErrorf(s.pos, "record payload of %d bytes reads past end of stream", hdr.Size)
		return false
	}

	s.count++
	if s.count > s.maxRecords {
		s.err = sizeLimitf("stream exceeds %d records", s.maxRecords)
		return false
	}

	s.rec = Record{Header: hdr, Payload: s.buf[s.pos : s.pos+int(hdr.Size)], Offset: start}
	s.pos += int(hdr.Size)
	return true
}

// Record returns the record produced by the last successful Scan.
func (s *RecordScanner) Record() Record { return s.rec }

// Err returns the terminal error, or nil after a clean end of stream.
func (s *RecordScanner) Err() error { return s.err }

// ScanRecords decodes the whole buffer eagerly.
func ScanRecords(buf []byte, maxRecords int) ([]Record, error) {
	sc := NewRecordScanner(buf, maxRecords)
	var out []Record
	for sc.Scan() {
		out = append(out, sc.Record())
	}
	return out, sc.Err()
}

// EncodeRecord appends a record's wire form to dst, using the extended size
// encoding when the payload exceeds the 12-bit domain.
func EncodeRecord(dst []byte, tag, level uint16, payload []byte) []byte {
	hdr := hwpdoc.RecordHeader{Tag: tag, Level: level, Size: uint32(len(payload))}
	dst = binary.LittleEndian.AppendUint32(dst, hdr.Encode())
	if hdr.IsExtended() {
		dst = binary.LittleEndian.AppendUint32(dst, hdr.Size)
	}
	return append(dst, payload...)
}
