package compress

import "github.com/klauspost/compress/s2"

// S2Compressor stores an exported section as a single S2 block.
//
// S2 blocks carry their decoded length, so Decompress allocates exactly once.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes a decoded section. An empty section yields an empty block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress restores a section exported with Compress.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n > maxSectionSize {
		return nil, s2.ErrTooLarge
	}

	return s2.Decode(make([]byte, n), data)
}
