package markupx

// ScopeValues provides copy-on-write key-value storage for state inherited
// down a chain of execution contexts. A container created with
// InheritScopeValues aliases its parent's data and allocates nothing until the
// first mutation, at which point the parent's current entries are snapshotted
// into a private map. The parent is never mutated through the child.
//
// Keys are case-sensitive. Values are shared by reference: the container
// isolates entries, not the interior of stored values.
//
// A ScopeValues belongs to a single render's sequential call chain and is not
// safe for concurrent use.
type ScopeValues struct {
	source *ScopeValues   // aliased parent data; nil once own is authoritative
	own    map[string]any // private copy, allocated lazily
}

// NewScopeValues creates an independently owned, empty container.
func NewScopeValues() *ScopeValues {
	return &ScopeValues{own: make(map[string]any)}
}

// InheritScopeValues creates a container that reads through parent until its
// first mutation. A nil parent behaves like NewScopeValues.
func InheritScopeValues(parent *ScopeValues) *ScopeValues {
	if parent == nil {
		return NewScopeValues()
	}
	return &ScopeValues{source: parent}
}

// Get retrieves a value by key. The second return reports whether the key
// exists in whichever store is currently authoritative.
func (s *ScopeValues) Get(key string) (any, bool) {
	if s.own != nil {
		v, ok := s.own[key]
		return v, ok
	}
	return s.source.Get(key)
}

// Set stores a value by key, materializing the private copy on first use.
func (s *ScopeValues) Set(key string, val any) {
	s.materialize()
	s.own[key] = val
}

// Delete removes a key, materializing the private copy on first use. Deleting
// an absent key is a no-op.
func (s *ScopeValues) Delete(key string) {
	s.materialize()
	delete(s.own, key)
}

// Len returns the number of entries currently visible.
func (s *ScopeValues) Len() int {
	if s.own != nil {
		return len(s.own)
	}
	return s.source.Len()
}

// Range calls fn for each visible entry until fn returns false.
func (s *ScopeValues) Range(fn func(key string, val any) bool) {
	if s.own != nil {
		for k, v := range s.own {
			if !fn(k, v) {
				return
			}
		}
		return
	}
	s.source.Range(fn)
}

// Snapshot returns a defensive copy of all visible entries.
func (s *ScopeValues) Snapshot() map[string]any {
	snap := make(map[string]any, s.Len())
	s.Range(func(k string, v any) bool {
		snap[k] = v
		return true
	})
	return snap
}

// materialize performs the one-way transition from aliased-to-source to
// private-copy. The copy reflects the source's contents at this moment.
func (s *ScopeValues) materialize() {
	if s.own != nil {
		return
	}
	s.own = s.source.Snapshot()
	s.source = nil
}
