package section

import (
	"strings"

	"github.com/arloliu/bpx/errs"
)

// Flag is the flags byte of a section header.
//
//	Bit 0: legacy zlib compression, rejected
//	Bit 1: streaming xz compression
//	Bit 2: legacy crc32 checksum, rejected
//	Bit 3: weak additive checksum
type Flag uint8

const (
	FlagCompressZlib Flag = 0x1
	FlagCompressXZ   Flag = 0x2
	FlagCheckCrc32   Flag = 0x4
	FlagCheckWeak    Flag = 0x8
)

// IsCompressed returns whether the payload is an xz stream.
func (f Flag) IsCompressed() bool {
	return f&FlagCompressXZ != 0
}

// HasWeakChecksum returns whether the payload checksum must be verified.
func (f Flag) HasWeakChecksum() bool {
	return f&FlagCheckWeak != 0
}

// Validate rejects the legacy compression and checksum modes.
func (f Flag) Validate() error {
	if f&FlagCompressZlib != 0 {
		return errs.ErrUnsupportedCompression
	}

	if f&FlagCheckCrc32 != 0 {
		return errs.ErrUnsupportedChecksum
	}

	return nil
}

// String lists the set bits, e.g. "CompressXZ | CheckWeak".
func (f Flag) String() string {
	var parts []string
	if f&FlagCompressZlib != 0 {
		parts = append(parts, "CompressZlib")
	}
	if f&FlagCompressXZ != 0 {
		parts = append(parts, "CompressXZ")
	}
	if f&FlagCheckCrc32 != 0 {
		parts = append(parts, "CheckCrc32")
	}
	if f&FlagCheckWeak != 0 {
		parts = append(parts, "CheckWeak")
	}
	if f&(FlagCheckWeak|FlagCheckCrc32) == 0 {
		parts = append(parts, "CheckNone")
	}

	return strings.Join(parts, " | ")
}
