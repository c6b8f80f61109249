package compress

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

const (
	// DefaultPreset is the xz preset used for section payloads when none is configured.
	DefaultPreset = 0
	// MaxPreset is the highest supported xz preset.
	MaxPreset = 9
)

// presetDictCap maps xz presets 0-9 to LZMA2 dictionary sizes, following the
// liblzma preset table.
var presetDictCap = [MaxPreset + 1]int{
	256 << 10, 1 << 20, 2 << 20, 4 << 20, 4 << 20,
	8 << 20, 8 << 20, 16 << 20, 32 << 20, 64 << 20,
}

// newStreamWriter returns an xz stream encoder writing to w. The stream
// carries no integrity check; payloads are covered by the section checksum.
// Close finishes the stream without closing w.
func newStreamWriter(w io.Writer, preset int) (io.WriteCloser, error) {
	if preset < 0 || preset > MaxPreset {
		return nil, fmt.Errorf("invalid xz preset %d, expected 0-%d", preset, MaxPreset)
	}

	cfg := xz.WriterConfig{
		DictCap:    presetDictCap[preset],
		NoCheckSum: true,
	}

	return cfg.NewWriter(w)
}

// newStreamReader returns an xz decoder reading from r. Concatenated streams
// are decoded as one payload.
func newStreamReader(r io.Reader) (io.Reader, error) {
	cfg := xz.ReaderConfig{SingleStream: false}

	return cfg.NewReader(r)
}
