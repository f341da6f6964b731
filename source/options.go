package source

import (
	"github.com/arloliu/midas/compress"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/options"
)

type config struct {
	registry    *compress.Registry
	compression format.CompressionType
}

func newConfig(name string) *config {
	return &config{
		registry:    compress.DefaultRegistry(),
		compression: format.DetectCompression(name),
	}
}

// Option is a functional option for configuring a Source.
type Option = options.Option[*config]

// WithRegistry sets the codec registry used to resolve the stream wrapping.
// Default is compress.DefaultRegistry().
func WithRegistry(registry *compress.Registry) Option {
	return options.NoError(func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	})
}

// WithCompression overrides the compression detected from the name suffix.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(cfg *config) {
		cfg.compression = compression
	})
}
