// Package logger builds the zap logger used by the bpxd command.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New builds a console logger writing to stderr at the given level
// ("debug", "info", "warn", "error"). An empty level selects DefaultLevel.
//
// Output is meant for humans: timestamps are ISO8601, the level and message are
// plain text and structured fields are rendered as JSON.
func New(level string) (*zap.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.Sampling = nil
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := c.Build(
		zap.AddStacktrace(zap.NewAtomicLevelAt(zap.FatalLevel)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return log, nil
}
