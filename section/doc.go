// Package section defines the fixed binary structures and constants of the BPX
// container format.
//
// This package handles serialization of the main header and of the section header
// table. It knows nothing about section payloads beyond their size, checksum and
// flags; storage and compression live in the bpx and compress packages.
//
// # Container Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Main Header (40 bytes, fixed)                           │
//	├─────────────────────────────────────────────────────────┤
//	│ Section Header Table (N × 24 bytes)                     │
//	├─────────────────────────────────────────────────────────┤
//	│ Section payloads, concatenated in table order           │
//	└─────────────────────────────────────────────────────────┘
//
// All integers are little-endian.
//
// # Main Header Format
//
//	Bytes  | Field        | Type     | Description
//	-------|--------------|----------|----------------------------------
//	0-2    | Signature    | [3]byte  | ASCII "BPX"
//	3      | Type         | uint8    | Container type, e.g. 'P'
//	4-7    | Checksum     | uint32   | See below
//	8-15   | FileSize     | uint64   | Total container size
//	16-19  | SectionCount | uint32   | Number of section headers
//	20-23  | Version      | uint32   | Always 1
//	24-39  | TypeExt      | [16]byte | Interpreted according to Type
//
// The main header checksum is the weak checksum of the 36 header bytes outside the
// checksum field, plus the weak checksum of every serialized section header.
//
// # Section Header Format
//
//	Bytes  | Field          | Type   | Description
//	-------|----------------|--------|----------------------------------
//	0-7    | Pointer        | uint64 | Payload offset in the container
//	8-11   | CompressedSize | uint32 | Stored payload size
//	12-15  | Size           | uint32 | Logical payload size
//	16-19  | Checksum       | uint32 | Weak checksum of the logical payload
//	20     | Type           | uint8  | Section type tag
//	21     | Flags          | uint8  | Compression and checksum bits
//	22-23  | Reserved       |        | Zero
//
// # Weak Checksum
//
// Every checksum in the format is a wrapping sum of byte values. It catches
// accidental corruption of a single byte but two compensating changes go
// unnoticed. The format keeps it for compatibility with existing containers.
package section
