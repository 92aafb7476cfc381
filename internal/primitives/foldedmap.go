package primitives

import "strings"

// FoldedEntry is a single attribute entry. Name preserves the spelling used
// when the entry was first recorded.
type FoldedEntry struct {
	Name  string
	Value any
}

// FoldedMap is a string-keyed map with case-insensitive lookup. It preserves
// the original spelling of each key and the order entries were inserted.
// The zero value is not usable; construct with NewFoldedMap.
type FoldedMap struct {
	index   map[string]int // folded name -> position in entries
	entries []FoldedEntry
}

// NewFoldedMap creates an empty FoldedMap.
func NewFoldedMap() *FoldedMap {
	return &FoldedMap{index: make(map[string]int)}
}

// Has reports whether a key is present, compared case-insensitively.
func (m *FoldedMap) Has(name string) bool {
	_, ok := m.index[strings.ToLower(name)]
	return ok
}

// Get retrieves the value for a key, compared case-insensitively.
func (m *FoldedMap) Get(name string) (any, bool) {
	i, ok := m.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Set inserts or replaces an entry. A replacement keeps the entry's position
// but adopts the new spelling and value.
func (m *FoldedMap) Set(name string, val any) {
	folded := strings.ToLower(name)
	if i, ok := m.index[folded]; ok {
		m.entries[i] = FoldedEntry{Name: name, Value: val}
		return
	}
	m.index[folded] = len(m.entries)
	m.entries = append(m.entries, FoldedEntry{Name: name, Value: val})
}

// Len returns the number of entries.
func (m *FoldedMap) Len() int {
	return len(m.entries)
}

// Entries returns a copy of all entries in insertion order.
func (m *FoldedMap) Entries() []FoldedEntry {
	out := make([]FoldedEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *FoldedMap) Range(fn func(e FoldedEntry) bool) {
	for _, e := range m.entries {
		if !fn(e) {
			return
		}
	}
}
