// Package store provides the object storage collaborator used by contexts.
//
// A Store holds arbitrary serializable values under string keys. Absent
// keys are reported with ErrNotFound rather than an error chain a caller
// has to inspect; Remove is idempotent.
package store

import "errors"

// Sentinel errors for object stores.
var (
	// ErrNotFound is returned by Retrieve when the key has no value.
	ErrNotFound = errors.New("object not found")

	// ErrEmptyKey is returned when an empty key is used.
	ErrEmptyKey = errors.New("object key is empty")
)

// Store is the object storage contract contexts delegate to.
type Store interface {
	// Persist stores value under key, replacing any existing value.
	Persist(key string, value any) error

	// Retrieve returns the value stored under key, or ErrNotFound.
	Retrieve(key string) (any, error)

	// Remove deletes the value under key. Removing an absent key is not
	// an error.
	Remove(key string) error
}
