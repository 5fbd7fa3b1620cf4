package model

import (
	"iter"
	"slices"
)

// MatchSet holds the distinct similar artists found for one query, in the
// order they were first seen.
type MatchSet struct {
	limit int
	index map[string]struct{}
	names []string
}

// NewMatchSet returns a set that accepts at most limit names. A limit of
// zero or less means unbounded.
func NewMatchSet(limit int) *MatchSet {
	return &MatchSet{
		limit: limit,
		index: make(map[string]struct{}),
	}
}

// Add inserts name. It returns false if name is already present or the
// set is full.
func (m *MatchSet) Add(name string) bool {
	if m.Full() {
		return false
	}
	if _, ok := m.index[name]; ok {
		return false
	}
	m.index[name] = struct{}{}
	m.names = append(m.names, name)
	return true
}

// Contains reports whether name has been added.
func (m *MatchSet) Contains(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Len returns the number of names.
func (m *MatchSet) Len() int {
	return len(m.names)
}

// Limit returns the capacity of the set.
func (m *MatchSet) Limit() int {
	return m.limit
}

// Full reports whether the set has reached its limit.
func (m *MatchSet) Full() bool {
	return m.limit > 0 && len(m.names) >= m.limit
}

// Names returns a copy of the names in insertion order.
func (m *MatchSet) Names() []string {
	return slices.Clone(m.names)
}

// All yields the names in insertion order.
func (m *MatchSet) All() iter.Seq[string] {
	return slices.Values(m.names)
}
