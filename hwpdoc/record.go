package hwpdoc

// Record tag IDs used in the DocInfo and BodyText streams.
// Tags occupy a 10-bit domain in the record header.
const (
	// DocInfo tags (0x00 - 0x1F).
	TagDocumentProperties uint16 = 0x00
	TagIDMappings         uint16 = 0x01
	TagBinData            uint16 = 0x02
	TagFaceName           uint16 = 0x03
	TagBorderFill         uint16 = 0x04
	TagCharShape          uint16 = 0x07
	TagTabDef             uint16 = 0x08
	TagParaShape          uint16 = 0x09
	TagStyle              uint16 = 0x0A

	// BodyText tags (0x40 - 0x7F).
	TagParaHeader            uint16 = 0x42
	TagParaText              uint16 = 0x43
	TagParaCharShape         uint16 = 0x44
	TagParaLineSeg           uint16 = 0x45 // layout geometry only; skipped during reconstruction
	TagParaRangeTag          uint16 = 0x46
	TagCtrlHeader            uint16 = 0x47
	TagTable                 uint16 = 0x4D
	TagListHeader            uint16 = 0x4F
	TagShapeComponent        uint16 = 0x51
	TagShapeComponentOLE     uint16 = 0x56
	TagShapeComponentPicture uint16 = 0x57
)

// ExtendedSizeSentinel in the 12-bit size field means the real payload size
// follows the header as an extra 4-byte little-endian value.
const ExtendedSizeSentinel = 0xFFF

// RecordHeader is the decoded framing of one record: a 10-bit tag, a 10-bit
// nesting level, and the payload size. Size describes exactly the payload
// bytes that follow the header within the same decompressed buffer.
type RecordHeader struct {
	Tag   uint16 `json:"tag"`
	Level uint16 `json:"level"`
	Size  uint32 `json:"size"`
}

// Encode packs the header into its 32-bit on-disk form. Sizes above the
// 12-bit domain encode the sentinel; the caller emits the extended size.
func (h RecordHeader) Encode() uint32 {
	size := h.Size
	if size >= ExtendedSizeSentinel {
		size = ExtendedSizeSentinel
	}
	return uint32(h.Tag&0x3FF) | uint32(h.Level&0x3FF)<<10 | size<<20
}

// IsExtended reports whether the payload size needs the extended encoding.
func (h RecordHeader) IsExtended() bool {
	return h.Size >= ExtendedSizeSentinel
}
