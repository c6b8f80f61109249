// Package errs defines the sentinel errors returned by the bpx packages.
//
// Errors are wrapped with context by the returning function, so callers should
// match them with errors.Is rather than equality.
package errs

import "errors"

// Format errors. The container or one of its payloads does not conform to the
// BPX layout. These are never retried internally.
var (
	// ErrInvalidSignature is returned when the first three bytes are not "BPX".
	ErrInvalidSignature = errors.New("bpx: invalid signature")
	// ErrUnsupportedVersion is returned when the main header version is not 1.
	ErrUnsupportedVersion = errors.New("bpx: unsupported version")
	// ErrUnsupportedCompression is returned for the legacy zlib compression flag.
	ErrUnsupportedCompression = errors.New("bpx: unsupported section compression")
	// ErrUnsupportedChecksum is returned for the legacy crc32 checksum flag.
	ErrUnsupportedChecksum = errors.New("bpx: unsupported section checksum")
	// ErrChecksumMismatch is returned when a header table or payload checksum does not match.
	ErrChecksumMismatch = errors.New("bpx: checksum mismatch")
	// ErrCorruptData is returned when a compressed payload cannot be decoded or
	// decodes to an unexpected length.
	ErrCorruptData       = errors.New("bpx: corrupt section data")
	ErrInvalidHeaderSize = errors.New("bpx: invalid header size")
	// ErrTruncated is returned when input ends before a complete structure was read.
	ErrTruncated = errors.New("bpx: unexpected end of input")

	ErrUnknownTypeCode     = errors.New("bpx: unknown structured data type code")
	ErrInvalidUTF8         = errors.New("bpx: invalid utf-8 string")
	ErrInvalidDebugSymbols = errors.New("bpx: wrong value type for debug symbols")
	// ErrInvalidString is returned when a string to be stored contains a NUL
	// byte, which would terminate it early on decode.
	ErrInvalidString = errors.New("bpx: string contains a NUL byte")
	// ErrNestingTooDeep is returned when structured data nests arrays and objects
	// deeper than the codec accepts, including self-referencing values.
	ErrNestingTooDeep = errors.New("bpx: structured data nested too deep")

	ErrUnknownContainerType = errors.New("bpx: unknown container type")
	// ErrEmptyPath is returned when a packed entry has an empty path. Unpacking
	// stops rather than writing to the extraction root.
	ErrEmptyPath = errors.New("bpx: empty path")
	// ErrUnsafePath is returned when a packed entry would be written outside the
	// extraction target.
	ErrUnsafePath = errors.New("bpx: path escapes target directory")
)

// Resource errors.
var (
	// ErrSectionTooLarge is returned when a section size does not fit the 32-bit
	// size fields of its header.
	ErrSectionTooLarge = errors.New("bpx: section exceeds 4GiB")
	// ErrSectionFull is returned when writing past the capacity of a memory-backed section.
	ErrSectionFull = errors.New("bpx: memory section capacity exceeded")
	// ErrTooManyValues is returned when an object or array holds more than 255 values.
	ErrTooManyValues = errors.New("bpx: structured data supports at most 255 values")
)

// Caller errors.
var (
	ErrAlreadySaved    = errors.New("bpx: encoder already saved")
	ErrSectionNotFound = errors.New("bpx: section not found")
	ErrSectionExists   = errors.New("bpx: section already present")
	ErrClosed          = errors.New("bpx: use of closed resource")
)
