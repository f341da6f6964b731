// Package writer writes MIDAS event files, optionally compressed.
//
// It is the producer-side counterpart of package reader and is used to build
// fixtures and to re-compress or convert existing files.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/midas/compress"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/event"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/options"
	"github.com/arloliu/midas/section"
)

// Config holds the configuration of a Writer.
type Config struct {
	registry       *compress.Registry
	compression    format.CompressionType
	hasCompression bool
	bankFormat     section.BankFormat
}

// Option is a functional option for configuring a Writer.
type Option = options.Option[*Config]

// WithRegistry sets the codec registry used to resolve the compression.
func WithRegistry(registry *compress.Registry) Option {
	return options.NoError(func(cfg *Config) {
		if registry != nil {
			cfg.registry = registry
		}
	})
}

// WithCompression overrides the compression selected by the file suffix.
// For New, the default is no compression.
func WithCompression(compression format.CompressionType) Option {
	return options.NoError(func(cfg *Config) {
		cfg.compression = compression
		cfg.hasCompression = true
	})
}

// WithBankFormat re-encodes the banks of every event written with WriteEvent
// in format f instead of the format they were read in.
func WithBankFormat(f section.BankFormat) Option {
	return options.New(func(cfg *Config) error {
		switch f {
		case section.BankFormat16, section.BankFormat32, section.BankFormat32A:
			cfg.bankFormat = f
			return nil
		default:
			return fmt.Errorf("%w: %d", errs.ErrInvalidBankFormat, f)
		}
	})
}

// Writer appends events to a stream.
//
// A Writer is not safe for concurrent use. Close must be called to flush the
// final compressed frame.
type Writer struct {
	name   string
	out    io.WriteCloser // compressing writer, or pass-through
	file   io.Closer      // underlying file, nil when not owned
	cfg    *Config
	events int
	bytes  int64
	closed bool
}

// Create creates or truncates the file at path. The compression is chosen
// from the path suffix unless WithCompression is given.
//
// Returns:
//   - *Writer: Writer positioned at the start of the file
//   - error: errs.ErrCodecUnavailable (before the file is created), or a file error
func Create(path string, opts ...Option) (*Writer, error) {
	cfg := &Config{registry: compress.DefaultRegistry(), compression: format.DetectCompression(path)}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := cfg.registry.Lookup(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	out, err := codec.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Writer{name: path, out: out, file: f, cfg: cfg}, nil
}

// New creates a Writer over w. Closing the Writer flushes the compressor but
// does not close w.
func New(w io.Writer, opts ...Option) (*Writer, error) {
	cfg := &Config{registry: compress.DefaultRegistry(), compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := cfg.registry.Lookup(cfg.compression)
	if err != nil {
		return nil, err
	}

	out, err := codec.NewWriter(w)
	if err != nil {
		return nil, err
	}

	return &Writer{name: "stream", out: out, cfg: cfg}, nil
}

// WriteEvent encodes and appends ev.
func (w *Writer) WriteEvent(ev *event.Event) error {
	if w.cfg.bankFormat != 0 && ev.Body != nil && !ev.Header.IsInternal() {
		body := *ev.Body
		body.Format = w.cfg.bankFormat
		ev = &event.Event{Header: ev.Header, Body: &body}
	}

	data, err := event.Encode(ev)
	if err != nil {
		return fmt.Errorf("encode event serial %d: %w", ev.Header.SerialNumber, err)
	}

	return w.Write(data)
}

// WriteBanks appends an ordinary event whose banks were assembled in enc.
func (w *Writer) WriteBanks(h section.EventHeader, enc *event.Encoder) error {
	return w.Write(enc.Encode(h))
}

// WriteDump appends a BOR or EOR event carrying a directory dump, or a message
// event carrying text.
func (w *Writer) WriteDump(h section.EventHeader, text []byte) error {
	if !h.IsInternal() {
		return fmt.Errorf("%w: %s", errs.ErrNotInternalEvent, h.EventID)
	}

	return w.Write(event.EncodeInternal(h, text))
}

// Write appends data, which must hold complete encoded events.
func (w *Writer) Write(data []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	n, err := w.out.Write(data)
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("write %s: %w", w.name, err)
	}
	w.events++

	return nil
}

// Events returns the number of events written.
func (w *Writer) Events() int {
	return w.events
}

// Bytes returns the number of uncompressed bytes written.
func (w *Writer) Bytes() int64 {
	return w.bytes
}

// Close flushes the compressor and closes the file created by Create.
// It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.out.Close()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}

	return err
}
