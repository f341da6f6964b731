package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/arloliu/midas/format"
)

// GzipCodec reads and writes gzip streams (.mid.gz files).
//
// Concatenated gzip members are read as one continuous stream.
type GzipCodec struct {
	level int
}

var _ Codec = (*GzipCodec)(nil)

// NewGzipCodec creates a gzip codec using the default compression level.
func NewGzipCodec() GzipCodec {
	return GzipCodec{level: gzip.DefaultCompression}
}

// Type returns format.CompressionGzip.
func (c GzipCodec) Type() format.CompressionType {
	return format.CompressionGzip
}

// NewReader validates the gzip header of r and returns a decompressing reader.
func (c GzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}

	return zr, nil
}

// NewWriter returns a gzip writer compressing into w.
func (c GzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}
