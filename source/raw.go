package source

import (
	"fmt"
	"io"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

// rawSource reads an uncompressed stream with native seeking.
type rawSource struct {
	name   string
	r      io.ReadSeeker
	closer io.Closer
	size   int64
	pos    int64
	closed bool
}

var _ Source = (*rawSource)(nil)

func newRawSource(name string, r io.ReadSeeker, closer io.Closer, size int64) *rawSource {
	return &rawSource{name: name, r: r, closer: closer, size: size}
}

func (s *rawSource) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errs.ErrSourceClosed
	}

	n, err := s.r.Read(p)
	s.pos += int64(n)

	return n, err
}

func (s *rawSource) SeekAbsolute(offset int64) error {
	if s.closed {
		return errs.ErrSourceClosed
	}
	if offset < 0 || offset > s.size {
		return fmt.Errorf("%w: offset %d outside [0, %d] of %s", errs.ErrInvalidSeek, offset, s.size, s.name)
	}
	if offset == s.pos {
		return nil
	}

	pos, err := s.r.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	s.pos = pos

	return nil
}

func (s *rawSource) Tell() int64 { return s.pos }

func (s *rawSource) Size() (int64, bool) { return s.size, true }

func (s *rawSource) Name() string { return s.name }

func (s *rawSource) Compression() format.CompressionType { return format.CompressionNone }

func (s *rawSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.closer != nil {
		return s.closer.Close()
	}

	return nil
}
