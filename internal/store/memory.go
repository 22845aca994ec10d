package store

import "sync"

// Memory is an in-process Store. It is the default collaborator for a root
// context and the natural choice for tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]any),
	}
}

// Persist stores value under key.
func (m *Memory) Persist(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = value
	return nil
}

// Retrieve returns the value stored under key, or ErrNotFound.
func (m *Memory) Retrieve(key string) (any, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Remove deletes the value under key, if present.
func (m *Memory) Remove(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}
