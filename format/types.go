package format

type (
	// SectionType is the type tag stored in a section header.
	SectionType uint8
	// ContainerType is the type tag stored in the main header.
	ContainerType uint8
	// CompressionType selects a whole-buffer codec in the compress package.
	CompressionType uint8
)

const (
	SectionData        SectionType = 0x01 // SectionData holds packed file records in a type P container.
	SectionMetadata    SectionType = 0xFE // SectionMetadata holds a single BPXSD object.
	SectionStringTable SectionType = 0xFF // SectionStringTable holds NUL-terminated UTF-8 strings.

	ContainerPackage ContainerType = 'P' // ContainerPackage is a packed file tree with metadata.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (t SectionType) String() string {
	switch t {
	case SectionData:
		return "Data"
	case SectionMetadata:
		return "Metadata"
	case SectionStringTable:
		return "Strings"
	default:
		return "Unknown"
	}
}

func (t ContainerType) String() string {
	switch t {
	case ContainerPackage:
		return "Package"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a codec name to its CompressionType.
// The second return value is false for unknown names.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
