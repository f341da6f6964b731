package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)
	require.Equal(t, 0, bb.Len())

	n, err := bb.Write([]byte("MIDAS"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("MIDAS"), bb.Bytes())

	bb.Truncate(2)
	require.Equal(t, []byte("MI"), bb.Bytes())
	require.Panics(t, func() { bb.Truncate(3) })

	capBefore := cap(bb.B)
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBuffer_Grow(t *testing.T) {
	tests := []struct {
		name     string
		initCap  int
		fill     int
		required int
		minCap   int
	}{
		{"sufficient capacity", 64, 10, 20, 64},
		{"small buffer grows by default size", 16, 16, 1, 16 + EventBufferDefaultSize},
		{"large buffer grows by quarter", 5 * EventBufferDefaultSize, 5 * EventBufferDefaultSize, 1, 5*EventBufferDefaultSize + 5*EventBufferDefaultSize/4},
		{"huge request", 16, 0, 10 * EventBufferDefaultSize, 10 * EventBufferDefaultSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := NewByteBuffer(tt.initCap)
			bb.B = append(bb.B, make([]byte, tt.fill)...)
			bb.Grow(tt.required)

			require.GreaterOrEqual(t, cap(bb.B), tt.minCap)
			require.Equal(t, tt.fill, bb.Len())
		})
	}
}

func TestByteBuffer_GrowPreservesData(t *testing.T) {
	bb := NewByteBuffer(4)
	_, _ = bb.Write([]byte{1, 2, 3, 4})
	bb.Grow(1024)
	require.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("event"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "event", out.String())

	_, err = bb.WriteTo(errorWriter{})
	require.Error(t, err)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 16, cap(bb.B))

	_, _ = bb.Write(make([]byte, 10))
	p.Put(bb)
	p.Put(nil)

	big := NewByteBuffer(128)
	p.Put(big) // discarded

	for range 4 {
		got := p.Get()
		require.Equal(t, 0, got.Len())
		require.LessOrEqual(t, cap(got.B), 64)
	}
}

func TestDefaultPools(t *testing.T) {
	eb := GetEventBuffer()
	require.NotNil(t, eb)
	require.Equal(t, 0, eb.Len())
	PutEventBuffer(eb)

	cb := GetCopyBuffer()
	require.GreaterOrEqual(t, cap(cb.B), CopyBufferDefaultSize)
	PutCopyBuffer(cb)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := GetEventBuffer()
				_, _ = bb.Write([]byte{byte(id)})
				PutEventBuffer(bb)
			}
		}(i)
	}
	wg.Wait()
}
