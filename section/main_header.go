package section

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/bpx/errs"
	"github.com/arloliu/bpx/format"
	"github.com/arloliu/bpx/internal/checksum"
)

// MainHeader represents the fixed-size header at the start of a BPX container.
type MainHeader struct {
	// Type is a caller defined discriminator, e.g. 'P' for packages.
	Type format.ContainerType // byte offset 3
	// Checksum is the weak checksum of this header (excluding the field itself)
	// plus the checksums of every section header.
	Checksum uint32 // byte offset 4-7
	// FileSize is the total container size, computed at save time.
	FileSize uint64 // byte offset 8-15
	// SectionCount is the number of section headers following the main header.
	SectionCount uint32 // byte offset 16-19
	// Version must be 1.
	Version uint32 // byte offset 20-23
	// TypeExt is interpreted according to Type.
	TypeExt [TypeExtSize]byte // byte offset 24-39
}

// NewMainHeader creates a main header for an empty container of the given type.
func NewMainHeader(typ format.ContainerType) MainHeader {
	return MainHeader{
		Type:     typ,
		FileSize: MainHeaderSize,
		Version:  Version,
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 40 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidSignature or ErrUnsupportedVersion
func (h *MainHeader) Parse(data []byte) error {
	if len(data) != MainHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if string(data[0:3]) != Signature {
		return fmt.Errorf("%w: %q", errs.ErrInvalidSignature, data[0:3])
	}

	h.Type = format.ContainerType(data[3])
	h.Checksum = binary.LittleEndian.Uint32(data[4:8])
	h.FileSize = binary.LittleEndian.Uint64(data[8:16])
	h.SectionCount = binary.LittleEndian.Uint32(data[16:20])
	h.Version = binary.LittleEndian.Uint32(data[20:24])
	copy(h.TypeExt[:], data[24:40])

	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedVersion, h.Version)
	}

	return nil
}

// Bytes serializes the MainHeader into a byte slice.
func (h MainHeader) Bytes() []byte {
	b := make([]byte, MainHeaderSize)
	h.put(b)

	return b
}

func (h MainHeader) put(b []byte) {
	copy(b[0:3], Signature)
	b[3] = uint8(h.Type)
	binary.LittleEndian.PutUint32(b[4:8], h.Checksum)
	binary.LittleEndian.PutUint64(b[8:16], h.FileSize)
	binary.LittleEndian.PutUint32(b[16:20], h.SectionCount)
	binary.LittleEndian.PutUint32(b[20:24], h.Version)
	copy(b[24:40], h.TypeExt[:])
}

// ComputeChecksum returns the weak checksum of the serialized header, skipping the
// checksum field itself.
func (h MainHeader) ComputeChecksum() uint32 {
	var b [MainHeaderSize]byte
	h.put(b[:])

	return checksum.Sum(b[:ChecksumOffset]) + checksum.Sum(b[ChecksumEnd:])
}

// ParseMainHeader parses a MainHeader from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 40 bytes)
//
// Returns:
//   - MainHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize, ErrInvalidSignature or ErrUnsupportedVersion
func ParseMainHeader(data []byte) (MainHeader, error) {
	if len(data) < MainHeaderSize {
		return MainHeader{}, errs.ErrInvalidHeaderSize
	}

	h := MainHeader{}
	if err := h.Parse(data[:MainHeaderSize]); err != nil {
		return MainHeader{}, err
	}

	return h, nil
}
