package domain

// OrderedMap is a map with deterministic, insertion-ordered iteration. The
// codec and all settlement arithmetic iterate it in key-insertion order so
// that encoding and payout traversal never depend on hash-table ordering.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Get returns the value for key and whether it exists.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or replaces the value for key. A new key is appended to the
// iteration order; an existing key keeps its original position.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *OrderedMap[K, V]) Keys() []K {
	return m.keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}
