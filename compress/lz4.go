package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// maxSectionSize is the largest logical section a container can describe.
const maxSectionSize = 1<<32 - 1

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor stores an exported section as a single LZ4 block.
//
// The block format does not record the decoded length, so Decompress grows its
// output buffer until the block fits, stopping at the section size limit.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes a decoded section. An empty section yields an empty block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress restores a section exported with Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for size := min(len(data)*4, maxSectionSize); ; size = min(size*2, maxSectionSize) {
		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || size == maxSectionSize {
			return nil, err
		}
	}
}
