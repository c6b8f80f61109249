package hash

import (
	"io"

	"github.com/cespare/xxhash/v2"
)

// Digest computes the xxHash64 of everything read from r.
func Digest(r io.Reader) (uint64, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}
