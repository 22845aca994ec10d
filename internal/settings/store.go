package settings

import "sync"

// Store is one node in a settings chain. Load mutates only this node's own
// mapping; Items flattens the whole chain with this node's entries taking
// precedence. A Store never mutates its parent.
type Store struct {
	mu     sync.RWMutex
	own    map[string]any
	parent *Store
}

// New creates a parentless store. Items on it reduces to its own mapping.
func New() *Store {
	return &Store{
		own: make(map[string]any),
	}
}

// NewChild creates a store chained to parent. A nil parent is equivalent
// to New.
func NewChild(parent *Store) *Store {
	return &Store{
		own:    make(map[string]any),
		parent: parent,
	}
}

// Parent returns the store this node chains to, or nil at the root of the
// chain.
func (s *Store) Parent() *Store {
	return s.parent
}

// Load deep-merges entries into this node's own mapping. Keys already
// present are replaced; nested maps merge recursively. The parent chain is
// never touched.
func (s *Store) Load(entries map[string]any) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.own = deepMerge(s.own, entries)
}

// Items returns a flattened snapshot of the chain: the root's own entries
// overlaid by each descendant in order, this node last, so this node's
// entries shadow identically-keyed ancestor entries. The snapshot is a deep
// copy; later Loads do not alter it.
func (s *Store) Items() map[string]any {
	result := make(map[string]any)
	s.collect(result)
	return result
}

// collect overlays the chain into out, ancestors first.
func (s *Store) collect(out map[string]any) {
	if s.parent != nil {
		s.parent.collect(out)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	deepMerge(out, s.own)
}

// Get retrieves a value from the flattened view using a dot-separated path.
func (s *Store) Get(path string) (any, bool) {
	return getByPath(s.Items(), path)
}

// GetString returns the string at path, or def if absent or not a string.
func (s *Store) GetString(path, def string) string {
	if v, ok := s.Get(path); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// GetBool returns the bool at path, or def if absent or not a bool.
func (s *Store) GetBool(path string, def bool) bool {
	if v, ok := s.Get(path); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetInt returns the integer at path, or def if absent or not numeric.
// TOML decodes integers as int64 and Lua numbers arrive as int64 or
// float64, so those are accepted alongside int.
func (s *Store) GetInt(path string, def int) int {
	v, ok := s.Get(path)
	if !ok {
		return def
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}
