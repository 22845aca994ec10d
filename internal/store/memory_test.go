package store

import (
	"errors"
	"testing"
)

func TestMemory_PersistRetrieve(t *testing.T) {
	m := NewMemory()

	if err := m.Persist("widget", map[string]any{"n": 1}); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	v, err := m.Retrieve("widget")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if v.(map[string]any)["n"] != 1 {
		t.Errorf("Retrieve = %v", v)
	}
}

func TestMemory_RetrieveAbsent(t *testing.T) {
	m := NewMemory()

	_, err := m.Retrieve("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Retrieve absent = %v, want ErrNotFound", err)
	}
}

func TestMemory_PersistReplaces(t *testing.T) {
	m := NewMemory()

	m.Persist("k", "old")
	m.Persist("k", "new")

	v, err := m.Retrieve("k")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if v != "new" {
		t.Errorf("Retrieve = %v, want new", v)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemory_RemoveIdempotent(t *testing.T) {
	m := NewMemory()
	m.Persist("k", 1)

	if err := m.Remove("k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := m.Remove("k"); err != nil {
		t.Errorf("Remove of absent key = %v, want nil", err)
	}
	if _, err := m.Retrieve("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Retrieve after Remove = %v, want ErrNotFound", err)
	}
}

func TestMemory_EmptyKey(t *testing.T) {
	m := NewMemory()

	if err := m.Persist("", 1); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Persist empty key = %v, want ErrEmptyKey", err)
	}
	if _, err := m.Retrieve(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Retrieve empty key = %v, want ErrEmptyKey", err)
	}
	if err := m.Remove(""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Remove empty key = %v, want ErrEmptyKey", err)
	}
}
