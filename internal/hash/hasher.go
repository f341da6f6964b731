package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hasher accumulates a structural xxHash64 fingerprint.
//
// Every write is length- or tag-delimited so that different sequences of
// writes cannot produce the same byte stream.
type Hasher struct {
	d   *xxhash.Digest
	buf [9]byte
}

// New creates an empty Hasher.
func New() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// Tag writes a single type marker byte.
func (h *Hasher) Tag(tag byte) {
	h.buf[0] = tag
	_, _ = h.d.Write(h.buf[:1])
}

// String writes s prefixed with its length.
func (h *Hasher) String(s string) {
	h.Uint64(uint64(len(s)))
	_, _ = h.d.WriteString(s)
}

// Uint64 writes v in little-endian order.
func (h *Hasher) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:8], v)
	_, _ = h.d.Write(h.buf[:8])
}

// Float64 writes the IEEE-754 bits of v.
func (h *Hasher) Float64(v float64) {
	h.Uint64(math.Float64bits(v))
}

// Sum64 returns the fingerprint of everything written so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}
