// Package endian provides the byte order used by every BPX binary structure.
//
// BPX is little-endian throughout. EndianEngine combines the ByteOrder and
// AppendByteOrder interfaces of encoding/binary so that encoders can append
// fixed-width values to a growing buffer without a scratch slice:
//
//	le := endian.GetLittleEndianEngine()
//	buf = le.AppendUint64(buf, hash)
//	hash = le.Uint64(buf[0:8])
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// AppendFloat32 appends the IEEE 754 bits of v using engine.
func AppendFloat32(engine EndianEngine, b []byte, v float32) []byte {
	return engine.AppendUint32(b, math.Float32bits(v))
}

// AppendFloat64 appends the IEEE 754 bits of v using engine.
func AppendFloat64(engine EndianEngine, b []byte, v float64) []byte {
	return engine.AppendUint64(b, math.Float64bits(v))
}

// Float32 decodes a float32 from the first 4 bytes of b.
func Float32(engine EndianEngine, b []byte) float32 {
	return math.Float32frombits(engine.Uint32(b))
}

// Float64 decodes a float64 from the first 8 bytes of b.
func Float64(engine EndianEngine, b []byte) float64 {
	return math.Float64frombits(engine.Uint64(b))
}
