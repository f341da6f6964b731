package reader

import (
	"log/slog"

	"github.com/arloliu/midas/compress"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/options"
)

// Config holds the configuration of a Reader.
type Config struct {
	logger          *slog.Logger
	registry        *compress.Registry
	compression     format.CompressionType
	hasCompression  bool
	strictTotalSize bool
}

func newConfig() *Config {
	return &Config{
		logger:   slog.New(slog.DiscardHandler),
		registry: compress.DefaultRegistry(),
	}
}

// Option is a functional option for configuring a Reader.
type Option = options.Option[*Config]

// WithLogger sets the logger used for debug traces and consistency warnings.
// Default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithRegistry sets the codec registry used by Open.
func WithRegistry(registry *compress.Registry) Option {
	return options.NoError(func(cfg *Config) {
		if registry != nil {
			cfg.registry = registry
		}
	})
}

// WithCompression makes Open ignore the file suffix and use the given compression.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(cfg *Config) {
		cfg.compression = compression
		cfg.hasCompression = true
	})
}

// WithStrictTotalSize makes ReadBody fail when an event's total_bank_bytes
// disagrees with the bytes its bank scan consumed. By default the mismatch is
// only logged as a warning.
func WithStrictTotalSize(strict bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.strictTotalSize = strict
	})
}
