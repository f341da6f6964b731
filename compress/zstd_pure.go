//go:build !cgo || !gozstd

package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewReader returns a streaming Zstandard decoder reading from r.
//
// The decoder runs single-threaded; events are consumed sequentially and the
// extra goroutines of a concurrent decoder buy nothing here.
func (c ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return decoder.IOReadCloser(), nil
}

// NewWriter returns a streaming Zstandard encoder writing to w.
func (c ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	encoder, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}

	return encoder, nil
}
