package section

import (
	"encoding/binary"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/internal/checksum"
)

// Header describes one section of a container. Headers are stored back to back
// right after the main header.
type Header struct {
	// Pointer is the byte offset of the payload within the container.
	Pointer uint64 // byte offset 0-7
	// CompressedSize is the number of payload bytes stored in the container.
	CompressedSize uint32 // byte offset 8-11
	// Size is the logical size of the payload once decompressed.
	Size uint32 // byte offset 12-15
	// Checksum is the weak checksum of the decompressed payload.
	Checksum uint32 // byte offset 16-19
	// Type is the section type tag.
	Type format.SectionType // byte offset 20
	// Flags selects compression and checksum.
	Flags Flag // byte offset 21, 22-23 reserved
}

// NewHeader creates a header for a new section of the given type and expected size.
func NewHeader(typ format.SectionType, size uint32) Header {
	return Header{
		Size:  size,
		Type:  typ,
		Flags: FlagCheckWeak,
	}
}

// IsHuge reports whether the section must be backed by a temporary file.
func (h Header) IsHuge() bool {
	return h.Size > HugeSectionThreshold
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 24 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, or a flag validation error
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Pointer = binary.LittleEndian.Uint64(data[0:8])
	h.CompressedSize = binary.LittleEndian.Uint32(data[8:12])
	h.Size = binary.LittleEndian.Uint32(data[12:16])
	h.Checksum = binary.LittleEndian.Uint32(data[16:20])
	h.Type = format.SectionType(data[20])
	h.Flags = Flag(data[21])

	return h.Flags.Validate()
}

// Bytes serializes the Header into a byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(b[0:8], h.Pointer)
	binary.LittleEndian.PutUint32(b[8:12], h.CompressedSize)
	binary.LittleEndian.PutUint32(b[12:16], h.Size)
	binary.LittleEndian.PutUint32(b[16:20], h.Checksum)
	b[20] = uint8(h.Type)
	b[21] = uint8(h.Flags)

	return b
}

// ComputeChecksum returns the weak checksum of all 24 serialized bytes.
func (h Header) ComputeChecksum() uint32 {
	return checksum.Sum(h.Bytes())
}

// ParseHeader parses a Header from a byte slice.
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or a flag validation error
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
