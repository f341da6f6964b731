// Package source provides seekable sequential byte sources over raw and
// compressed MIDAS event streams.
//
// The stream wrapping is chosen from the file name suffix (see
// format.DetectCompression). Compressed sources support absolute seeks by
// skipping forward through the decompressed stream, and by reopening and
// replaying it for backward seeks; callers cannot tell the difference.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/midas/compress"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/options"
)

// Source is a sequential, seekable view of an uncompressed event stream.
//
// Read follows io.Reader semantics; a short read happens only at the end of the
// stream. A Source is not safe for concurrent use: every method moves or reads
// the shared cursor.
type Source interface {
	io.Reader

	// SeekAbsolute moves the cursor to offset bytes from the start of the
	// uncompressed stream. Seeking past the end fails with errs.ErrInvalidSeek.
	SeekAbsolute(offset int64) error

	// Tell returns the current cursor offset in the uncompressed stream.
	Tell() int64

	// Size returns the total uncompressed length when it is known without
	// decompressing the whole stream.
	Size() (int64, bool)

	// Name returns the path or name the source was opened with.
	Name() string

	// Compression returns the stream wrapping of the source.
	Compression() format.CompressionType

	// Close releases the underlying file and decoder. It is safe to call more than once.
	Close() error
}

// Open opens the file at path and wraps it according to its suffix.
//
// The codec is resolved before the file is touched, so a missing codec fails
// with errs.ErrCodecUnavailable before any byte is read.
//
// Parameters:
//   - path: File path; ".gz", ".lz4", ".zst" and ".bz2" select compressed streams
//   - opts: Optional configuration (WithRegistry, WithCompression)
//
// Returns:
//   - Source: Opened source positioned at offset 0
//   - error: errs.ErrCodecUnavailable, file open errors, or codec header errors
func Open(path string, opts ...Option) (Source, error) {
	cfg, codec, err := resolve(path, opts)
	if err != nil {
		return nil, err
	}

	if cfg.compression == format.CompressionNone {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, err
		}

		return newRawSource(path, f, f, info.Size()), nil
	}

	opener := func() (io.ReadCloser, error) {
		return os.Open(path)
	}

	return newStreamSource(path, codec, opener)
}

// FromBytes creates a source over an in-memory stream.
//
// The name only selects the compression, as with Open; data is never copied.
func FromBytes(name string, data []byte, opts ...Option) (Source, error) {
	cfg, codec, err := resolve(name, opts)
	if err != nil {
		return nil, err
	}

	if cfg.compression == format.CompressionNone {
		return newRawSource(name, bytes.NewReader(data), nil, int64(len(data))), nil
	}

	opener := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	return newStreamSource(name, codec, opener)
}

// FromReader creates a source over an arbitrary stream, such as a pipe.
//
// If r implements io.Seeker, backward seeks rewind r to its start and replay
// the stream. Otherwise only forward seeks are possible and a backward seek
// fails with errs.ErrInvalidSeek. The source never closes r.
func FromReader(name string, r io.Reader, opts ...Option) (Source, error) {
	cfg, codec, err := resolve(name, opts)
	if err != nil {
		return nil, err
	}

	seeker, seekable := r.(io.ReadSeeker)
	if cfg.compression == format.CompressionNone && seekable {
		size, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}

		return newRawSource(name, seeker, nil, size), nil
	}

	opened := false
	opener := func() (io.ReadCloser, error) {
		if opened {
			if !seekable {
				return nil, fmt.Errorf("%w: %s cannot be replayed", errs.ErrInvalidSeek, name)
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return nil, err
			}
		}
		opened = true

		return io.NopCloser(r), nil
	}

	return newStreamSource(name, codec, opener)
}

func resolve(name string, opts []Option) (*config, compress.Codec, error) {
	cfg := newConfig(name)
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, nil, err
	}

	codec, err := cfg.registry.Lookup(cfg.compression)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}

	return cfg, codec, nil
}

// ReadFull reads exactly n bytes from src.
//
// Returns:
//   - []byte: The bytes read; shorter than n only together with an error
//   - error: io.EOF if nothing could be read, io.ErrUnexpectedEOF on a short read
func ReadFull(src Source, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(src, buf)
	if err != nil {
		return buf[:read], err
	}

	return buf, nil
}

// IsEOF reports whether err marks the end of a stream, clean or not.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
