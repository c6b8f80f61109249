// Package compress implements the payload framing of BPX sections and a set of
// whole-buffer codecs.
//
// # Section Framing
//
// Section payloads of at least one chunk (64 KiB) are stored as a single xz
// stream without an integrity check of its own. Block reads the logical bytes
// chunk by chunk, checksums them and feeds a streaming encoder; Unblock reads
// exactly the stored number of compressed bytes and checksums the decompressed
// output. Smaller payloads are stored raw
// through Copy.
//
//	csize, sum, err := compress.Block(section, spill, size, compress.DefaultPreset)
//	sum, n, err := compress.Unblock(container, section, int64(header.CompressedSize))
//
// Compression is strictly sequential. Presets 0-9 select the LZMA2 dictionary
// size the way xz presets do; only the dictionary differs between presets.
// The decoder accepts concatenated streams.
//
// # Whole-buffer Codecs
//
// Codec implementations (zstd, S2, LZ4 and no-op) compress a byte slice at once.
// They are used when exporting a decoded section to a standalone file:
//
//	codec, err := compress.CreateCodec(format.CompressionS2, "export")
//	out, err := codec.Compress(data)
//
// The zstd codec uses the pure Go implementation from klauspost/compress by
// default. Building with -tags gozstd switches to the cgo bindings from
// valyala/gozstd.
package compress
