package ordered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap_InsertionOrder(t *testing.T) {
	m := New[string, int](4)
	m.Set("ADC0", 1)
	m.Set("TDC0", 2)
	m.Set("SCL0", 3)

	require.Equal(t, 3, m.Len())
	require.Equal(t, []string{"ADC0", "TDC0", "SCL0"}, m.Keys())

	v, ok := m.Get("TDC0")
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = m.Get("NONE")
	require.False(t, ok)
}

func TestMap_OverwriteMovesToEnd(t *testing.T) {
	var m Map[string, int]
	m.Set("A", 1)
	m.Set("B", 2)
	m.Set("C", 3)
	m.Set("A", 10)

	require.Equal(t, []string{"B", "C", "A"}, m.Keys())
	v, _ := m.Get("A")
	require.Equal(t, 10, v)

	// overwriting the last entry keeps it in place
	m.Set("A", 11)
	require.Equal(t, []string{"B", "C", "A"}, m.Keys())

	for i, k := range m.Keys() {
		require.Equal(t, i, m.index[k])
	}
}

func TestMap_Delete(t *testing.T) {
	m := New[string, int](0)
	m.Set("A", 1)
	m.Set("B", 2)
	m.Set("C", 3)

	require.True(t, m.Delete("B"))
	require.False(t, m.Delete("B"))
	require.False(t, m.Has("B"))
	require.Equal(t, []string{"A", "C"}, m.Keys())

	v, ok := m.Get("C")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestMap_All(t *testing.T) {
	m := New[string, int](0)
	m.Set("x", 1)
	m.Set("y", 2)
	m.Set("z", 3)

	var keys []string
	var sum int
	for k, v := range m.All() {
		keys = append(keys, k)
		sum += v
		if k == "y" {
			break
		}
	}
	require.Equal(t, []string{"x", "y"}, keys)
	require.Equal(t, 3, sum)

	var nilMap *Map[string, int]
	require.Equal(t, 0, nilMap.Len())
	for range nilMap.All() {
		t.Fatal("nil map must not yield")
	}
}

func TestMap_Reset(t *testing.T) {
	m := New[int, string](2)
	m.Set(1, "a")
	m.Set(2, "b")
	m.Reset()

	require.Equal(t, 0, m.Len())
	require.False(t, m.Has(1))

	m.Set(3, "c")
	require.Equal(t, []int{3}, m.Keys())
}
