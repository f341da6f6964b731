package compress

import "github.com/arloliu/midas/format"

// ZstdCodec reads and writes Zstandard streams (.mid.zst files).
//
// The default build uses the pure Go implementation from klauspost/compress.
// Building with the gozstd tag (and cgo enabled) switches to the libzstd
// bindings from valyala/gozstd.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstandard codec with default settings.
//
// Example:
//
//	codec := NewZstdCodec()
//	rc, err := codec.NewReader(file)
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// Type returns format.CompressionZstd.
func (c ZstdCodec) Type() format.CompressionType {
	return format.CompressionZstd
}
