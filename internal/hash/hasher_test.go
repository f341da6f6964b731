package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher_Deterministic(t *testing.T) {
	sum := func() uint64 {
		h := New()
		h.Tag('d')
		h.String("Runinfo")
		h.Uint64(137)
		h.Float64(1.5)

		return h.Sum64()
	}

	require.Equal(t, sum(), sum())
	require.Equal(t, uint64(0xef46db3751d8e999), New().Sum64())
}

func TestHasher_Delimited(t *testing.T) {
	a := New()
	a.String("ab")
	a.String("c")

	b := New()
	b.String("a")
	b.String("bc")

	require.NotEqual(t, a.Sum64(), b.Sum64())

	c := New()
	c.Tag('i')
	c.Uint64(1)

	d := New()
	d.Tag('f')
	d.Uint64(1)

	require.NotEqual(t, c.Sum64(), d.Sum64())
}
