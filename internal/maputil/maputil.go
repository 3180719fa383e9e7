// Package maputil provides map helpers used to keep generator output
// deterministic: sorted key extraction and an insertion-ordered map.
package maputil

import (
	"cmp"
	"iter"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
// A nil or empty map yields an empty, non-nil slice.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Ordered is a map that remembers insertion order.
// Re-setting an existing key keeps its original position.
// The zero value is ready to use.
type Ordered[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// NewOrdered creates an empty Ordered map.
func NewOrdered[K comparable, V any]() *Ordered[K, V] {
	return &Ordered[K, V]{}
}

// Set inserts or replaces the value for key.
func (m *Ordered[K, V]) Set(key K, val V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = val
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

// Get returns the value for key.
func (m *Ordered[K, V]) Get(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Has reports whether key is present.
func (m *Ordered[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, preserving the order of the remaining entries.
func (m *Ordered[K, V]) Delete(key K) {
	if m == nil {
		return
	}
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	delete(m.index, key)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
}

// Len returns the number of entries.
func (m *Ordered[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Ordered[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over entries in insertion order.
func (m *Ordered[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Values iterates over values in insertion order.
func (m *Ordered[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		if m == nil {
			return
		}
		for _, v := range m.vals {
			if !yield(v) {
				return
			}
		}
	}
}
