//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// NewReader returns a libzstd streaming decoder reading from r.
func (c ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{Reader: gozstd.NewReader(r)}, nil
}

// NewWriter returns a libzstd streaming encoder writing to w.
func (c ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriter{Writer: gozstd.NewWriterLevel(w, gozstd.DefaultCompressionLevel)}, nil
}

type gozstdReader struct {
	*gozstd.Reader
}

// Close releases the native decoder.
func (r *gozstdReader) Close() error {
	r.Release()
	return nil
}

type gozstdWriter struct {
	*gozstd.Writer
}

// Close flushes the final frame and releases the native encoder.
func (w *gozstdWriter) Close() error {
	err := w.Writer.Close()
	w.Release()

	return err
}
