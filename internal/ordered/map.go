package ordered

import "iter"

// Map is an insertion-ordered map.
//
// Iteration follows the order in which keys were last set: overwriting an
// existing key moves it to the end. The zero value is an empty map ready to use.
//
// Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	index  map[K]int // key → position in keys/values
	keys   []K
	values []V
}

// New creates an empty map with room for capacity entries.
func New[K comparable, V any](capacity int) *Map[K, V] {
	return &Map[K, V]{
		index:  make(map[K]int, capacity),
		keys:   make([]K, 0, capacity),
		values: make([]V, 0, capacity),
	}
}

// Set stores v under k. An existing entry is replaced and moved to the last position.
func (m *Map[K, V]) Set(k K, v V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}

	if pos, exists := m.index[k]; exists {
		if pos == len(m.keys)-1 {
			m.values[pos] = v
			return
		}
		m.removeAt(pos)
	}

	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	pos, ok := m.index[k]
	if !ok {
		var zero V
		return zero, false
	}

	return m.values[pos], true
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.index[k]
	return ok
}

// Delete removes k, preserving the order of the remaining entries.
func (m *Map[K, V]) Delete(k K) bool {
	pos, ok := m.index[k]
	if !ok {
		return false
	}
	m.removeAt(pos)

	return true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns a copy of the keys in order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}

	out := make([]K, len(m.keys))
	copy(out, m.keys)

	return out
}

// All iterates over the entries in order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Reset removes all entries but keeps the allocated capacity.
func (m *Map[K, V]) Reset() {
	clear(m.index)
	clear(m.values)
	m.keys = m.keys[:0]
	m.values = m.values[:0]
}

func (m *Map[K, V]) removeAt(pos int) {
	delete(m.index, m.keys[pos])
	m.keys = append(m.keys[:pos], m.keys[pos+1:]...)
	m.values = append(m.values[:pos], m.values[pos+1:]...)

	for i := pos; i < len(m.keys); i++ {
		m.index[m.keys[i]] = i
	}
}
