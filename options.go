package bpx

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/arloliu/bpx/compress"
	"github.com/arloliu/bpx/internal/options"
)

// Config holds the settings shared by Encoder and Decoder.
type Config struct {
	logger  *zap.Logger
	tempDir string
	preset  int
}

// Option configures an Encoder or a Decoder.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		logger: zap.NewNop(),
		preset: compress.DefaultPreset,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger receiving per-section debug records.
// A nil logger disables logging.
func WithLogger(log *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if log == nil {
			log = zap.NewNop()
		}
		c.logger = log
	})
}

// WithTempDir sets the directory for file-backed sections and the save spill
// file. The default is os.TempDir.
func WithTempDir(dir string) Option {
	return options.New(func(c *Config) error {
		if dir == "" {
			c.tempDir = ""
			return nil
		}

		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("temp dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("temp dir %q is not a directory", dir)
		}
		c.tempDir = dir

		return nil
	})
}

// WithCompressionLevel sets the xz preset (0-9) used for compressed sections.
// Higher presets use a larger dictionary.
func WithCompressionLevel(preset int) Option {
	return options.New(func(c *Config) error {
		if preset < 0 || preset > compress.MaxPreset {
			return fmt.Errorf("invalid compression level %d, expected 0-%d", preset, compress.MaxPreset)
		}
		c.preset = preset

		return nil
	})
}
