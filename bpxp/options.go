package bpxp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/internal/options"
	"github.com/arloliu/bpx/section"
)

// DefaultSectionCap is the largest logical size of a data section written by the packer.
const DefaultSectionCap = 200_000_000 - section.ReadBufferSize

// recordHeaderSize is the size of the [size u64][path offset u32] record prefix.
const recordHeaderSize = 12

// ProgressFunc receives the name of the entry being packed or unpacked and the
// number of content bytes just copied.
type ProgressFunc func(name string, n int64)

type config struct {
	logger     *zap.Logger
	sectionCap int64
	progress   ProgressFunc
	container  []bpx.Option
}

// Option configures an Encoder or a Decoder.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		logger:     zap.NewNop(),
		sectionCap: DefaultSectionCap,
		progress:   func(string, int64) {},
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// containerOptions returns the options for the underlying container codec.
func (c *config) containerOptions() []bpx.Option {
	return append([]bpx.Option{bpx.WithLogger(c.logger)}, c.container...)
}

// WithLogger sets the logger for per-entry debug records. It is also passed to
// the container codec.
func WithLogger(log *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if log == nil {
			log = zap.NewNop()
		}
		c.logger = log
	})
}

// WithSectionCap overrides DefaultSectionCap. The cap must leave room for at
// least one record header.
func WithSectionCap(n int64) Option {
	return options.New(func(c *config) error {
		if n <= recordHeaderSize || n > section.MaxSectionSize {
			return fmt.Errorf("invalid section cap %d", n)
		}
		c.sectionCap = n

		return nil
	})
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return options.NoError(func(c *config) {
		if fn != nil {
			c.progress = fn
		}
	})
}

// WithContainerOptions forwards options such as bpx.WithTempDir to the container codec.
func WithContainerOptions(opts ...bpx.Option) Option {
	return options.NoError(func(c *config) {
		c.container = append(c.container, opts...)
	})
}
