package section

import "math"

// Signature is the magic string at the start of every BPX container.
const Signature = "BPX"

// Version is the only main header version this package reads and writes.
const Version = 1

// offset and sizes in the container file
const (
	MainHeaderSize = 40 // fixed main header size in bytes
	HeaderSize     = 24 // fixed section header size in bytes
	TypeExtSize    = 16 // size of the type specific extension block

	ChecksumOffset = 4 // byte offset of the main header checksum field
	ChecksumEnd    = 8 // first byte after the main header checksum field
)

// storage strategy
const (
	// HugeSectionThreshold is the logical size above which a section is backed by a
	// temporary file instead of memory.
	HugeSectionThreshold = 1000000
	// ChunkSize is the block size fed to the streaming compressor. Sections smaller
	// than one chunk are stored raw.
	ChunkSize = 65536
	// ReadBufferSize is the read-ahead buffer of file-backed sections.
	ReadBufferSize = 8192
	// MaxSectionSize is the largest value the 32-bit size fields can carry.
	MaxSectionSize = math.MaxUint32
)
