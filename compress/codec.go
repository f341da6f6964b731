package compress

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

// Decompressor wraps a compressed byte stream into a decompressing reader.
//
// MIDAS files are read sequentially from start to end, so decompression is
// stream oriented: the returned reader yields the uncompressed event stream and
// never needs the whole file in memory.
//
// Example:
//
//	codec, err := registry.Lookup(format.CompressionLZ4)
//	if err != nil {
//	    return err
//	}
//	rc, err := codec.NewReader(file)
//	if err != nil {
//	    return fmt.Errorf("open lz4 stream: %w", err)
//	}
//	defer rc.Close()
type Decompressor interface {
	// NewReader returns a reader producing the decompressed bytes of r.
	//
	// Closing the returned reader releases decoder resources; it never closes r.
	// Errors in the compressed data are reported by NewReader (for formats
	// with an eagerly validated header) or by Read.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Compressor wraps a byte stream into a compressing writer.
type Compressor interface {
	// NewWriter returns a writer compressing into w.
	//
	// The caller must Close the returned writer to flush the final frame;
	// closing it never closes w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor

	// Type returns the compression type implemented by the codec.
	Type() format.CompressionType
}

// Registry maps compression types to the codecs available to a reader or writer.
//
// A Registry is a plain value owned by its caller; there is no process-wide
// registry. Removing a codec makes every stream of that type fail with
// errs.ErrCodecUnavailable, which is how an environment without a given
// codec is modelled.
//
// Registry is not safe for concurrent mutation. Lookups may run concurrently
// once the registry is no longer modified.
type Registry struct {
	codecs map[format.CompressionType]Codec
}

// NewRegistry creates a registry holding the given codecs.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{codecs: make(map[format.CompressionType]Codec, len(codecs))}
	for _, c := range codecs {
		r.Register(c)
	}

	return r
}

// DefaultRegistry returns a new registry with the built-in codecs:
// raw, gzip, LZ4 and Zstandard.
//
// bzip2 is a recognised file suffix but has no built-in codec; register one
// to read such files.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewNoOpCodec(),
		NewGzipCodec(),
		NewLZ4Codec(),
		NewZstdCodec(),
	)
}

// Register adds or replaces the codec for c.Type().
func (r *Registry) Register(c Codec) {
	r.codecs[c.Type()] = c
}

// Unregister removes the codec for the given type.
func (r *Registry) Unregister(t format.CompressionType) {
	delete(r.codecs, t)
}

// Lookup returns the codec registered for t.
//
// Returns:
//   - Codec: The registered codec
//   - error: errs.ErrCodecUnavailable if no codec is registered for t
func (r *Registry) Lookup(t format.CompressionType) (Codec, error) {
	if r != nil {
		if c, ok := r.codecs[t]; ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrCodecUnavailable, t)
}

// Types returns the registered compression types in ascending order.
func (r *Registry) Types() []format.CompressionType {
	types := make([]format.CompressionType, 0, len(r.codecs))
	for t := range r.codecs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// CompressBytes compresses data in one shot with the given compressor.
//
// Returns:
//   - []byte: Complete compressed stream (nil if data is empty)
//   - error: Compression error if any
func CompressBytes(c Compressor, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w, err := c.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecompressBytes decompresses a complete compressed stream in one shot.
//
// Returns:
//   - []byte: Decompressed data (nil if data is empty)
//   - error: Decompression error if the stream is corrupted or truncated
func DecompressBytes(d Decompressor, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	rc, err := d.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return out, nil
}
