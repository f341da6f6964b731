package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/midas/compress"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/pool"
)

// streamSource reads a compressed stream. Forward seeks discard decompressed
// bytes; backward seeks reopen the underlying stream and replay it.
type streamSource struct {
	name   string
	codec  compress.Codec
	opener func() (io.ReadCloser, error)

	raw    io.ReadCloser // underlying compressed stream
	dec    io.ReadCloser // decompressing reader over raw
	pos    int64
	closed bool
}

var _ Source = (*streamSource)(nil)

func newStreamSource(name string, codec compress.Codec, opener func() (io.ReadCloser, error)) (*streamSource, error) {
	s := &streamSource{name: name, codec: codec, opener: opener}
	if err := s.reopen(); err != nil {
		return nil, err
	}

	return s, nil
}

// reopen restarts decompression at offset 0. If the new stream cannot be
// decoded, the previous decoder is released as well because the opener may have
// moved the stream under it; reads then fail until a later seek reopens it.
func (s *streamSource) reopen() error {
	raw, err := s.opener()
	if err != nil {
		return err
	}

	dec, err := s.codec.NewReader(raw)
	if err != nil {
		_ = raw.Close()
		_ = s.release()
		s.pos = 0

		return fmt.Errorf("%w: %s stream %s: %w", errs.ErrStreamReset, s.codec.Type(), s.name, err)
	}
	_ = s.release()

	s.raw = raw
	s.dec = dec
	s.pos = 0

	return nil
}

func (s *streamSource) release() error {
	var err error
	if s.dec != nil {
		err = s.dec.Close()
		s.dec = nil
	}
	if s.raw != nil {
		err = errors.Join(err, s.raw.Close())
		s.raw = nil
	}

	return err
}

func (s *streamSource) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errs.ErrSourceClosed
	}

	if s.dec == nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrStreamReset, s.name)
	}

	n, err := s.dec.Read(p)
	s.pos += int64(n)

	return n, err
}

func (s *streamSource) SeekAbsolute(offset int64) error {
	if s.closed {
		return errs.ErrSourceClosed
	}
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", errs.ErrInvalidSeek, offset)
	}

	if offset < s.pos || s.dec == nil {
		if err := s.reopen(); err != nil {
			return err
		}
	}

	if err := s.discard(offset - s.pos); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: offset %d beyond end %d of %s", errs.ErrInvalidSeek, offset, s.pos, s.name)
		}

		return err
	}

	return nil
}

// discard reads and drops n decompressed bytes through a pooled scratch buffer.
func (s *streamSource) discard(n int64) error {
	if n <= 0 {
		return nil
	}

	bb := pool.GetCopyBuffer()
	defer pool.PutCopyBuffer(bb)
	scratch := bb.B[:cap(bb.B)]

	for n > 0 {
		chunk := scratch
		if int64(len(chunk)) > n {
			chunk = chunk[:n]
		}

		read, err := s.dec.Read(chunk)
		s.pos += int64(read)
		n -= int64(read)
		if err != nil {
			if errors.Is(err, io.EOF) && n == 0 {
				return nil
			}

			return err
		}
	}

	return nil
}

func (s *streamSource) Tell() int64 { return s.pos }

func (s *streamSource) Size() (int64, bool) { return 0, false }

func (s *streamSource) Name() string { return s.name }

func (s *streamSource) Compression() format.CompressionType { return s.codec.Type() }

func (s *streamSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	return s.release()
}
