package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/midas/format"
)

// LZ4Codec reads and writes LZ4 frame streams (.mid.lz4 files).
//
// This is the block-compression codec MIDAS loggers write by default.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 frame codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Type returns format.CompressionLZ4.
func (c LZ4Codec) Type() format.CompressionType {
	return format.CompressionLZ4
}

// NewReader returns a reader decoding the LZ4 frames of r.
//
// Frame errors surface from Read.
func (c LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// NewWriter returns an LZ4 frame writer compressing into w.
func (c LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}
