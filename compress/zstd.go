package compress

// zstdLevel is the level of the whole-buffer zstd codec.
const zstdLevel = 3

// ZstdCompressor provides whole-buffer Zstandard compression.
//
// The pure Go implementation from klauspost/compress is used by default; building
// with the gozstd tag switches to the cgo bindings of the reference library.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
