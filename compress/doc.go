// Package compress provides the stream codecs that unwrap compressed MIDAS files.
//
// MIDAS loggers write event streams either raw (.mid) or through a stream
// compressor (.mid.gz, .mid.lz4, .mid.zst). This package turns a compressed
// byte stream back into the raw event stream, and the other way around for
// producers and tests.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Decompressor interface {
//	    NewReader(r io.Reader) (io.ReadCloser, error)
//	}
//
//	type Compressor interface {
//	    NewWriter(w io.Writer) (io.WriteCloser, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	    Type() format.CompressionType
//	}
//
// # Supported Algorithms
//
//	Type              | Suffix | Implementation
//	------------------|--------|-----------------------------------------
//	CompressionNone   |        | pass-through
//	CompressionGzip   | .gz    | github.com/klauspost/compress/gzip
//	CompressionLZ4    | .lz4   | github.com/pierrec/lz4/v4 (frame format)
//	CompressionZstd   | .zst   | github.com/klauspost/compress/zstd, or
//	                  |        | github.com/valyala/gozstd with -tags gozstd
//	CompressionBzip2  | .bz2   | none built in
//
// # Registry
//
// Codecs are looked up through a Registry instead of a global table, so a
// caller can model an environment where a codec is missing:
//
//	registry := compress.DefaultRegistry()
//	registry.Unregister(format.CompressionLZ4)
//	_, err := registry.Lookup(format.CompressionLZ4) // errs.ErrCodecUnavailable
//
// # Thread Safety
//
// Codec values are immutable and safe for concurrent use. The readers and
// writers they return are not; each belongs to a single stream.
package compress
