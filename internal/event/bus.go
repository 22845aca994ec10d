package event

import (
	"sync"

	"github.com/google/uuid"
)

// Callback handles a single event delivery. The payload is whatever the
// notifier passed, possibly nil. Returning a non-nil error stops delivery
// to callbacks registered after this one.
type Callback func(payload any) error

// Bus is the hierarchy-wide event bus. One instance is created by the root
// context and shared by reference with every descendant.
type Bus interface {
	// Listen registers fn for name. Multiple registrations for the same
	// name are all retained and invoked in registration order; duplicates
	// are not collapsed.
	Listen(name string, fn Callback) error

	// Notify synchronously invokes every callback currently registered for
	// name, in registration order, passing payload to each. Notifying a
	// name with no listeners is a no-op. The first callback error aborts
	// delivery to later callbacks and is returned wrapped in a
	// *CallbackError.
	Notify(name string, payload any) error

	// ListenerCount returns the number of callbacks registered for name.
	ListenerCount(name string) int

	// EventNames returns the names that have at least one listener.
	EventNames() []string
}

// listener pairs a callback with a stable ID for error reporting.
type listener struct {
	id string
	fn Callback
}

// bus is the default Bus implementation.
type bus struct {
	mu        sync.RWMutex
	listeners map[string][]listener
}

// New creates an empty bus.
func New() Bus {
	return &bus{
		listeners: make(map[string][]listener),
	}
}

// Listen registers fn for name.
func (b *bus) Listen(name string, fn Callback) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilCallback
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[name] = append(b.listeners[name], listener{
		id: uuid.NewString(),
		fn: fn,
	})
	return nil
}

// Notify dispatches payload to every listener for name.
func (b *bus) Notify(name string, payload any) error {
	if name == "" {
		return ErrEmptyName
	}

	// Snapshot under the read lock so callbacks may call Listen (or Notify)
	// without deadlocking, and so registrations made during this pass are
	// not delivered within it.
	b.mu.RLock()
	regs := b.listeners[name]
	snapshot := make([]listener, len(regs))
	copy(snapshot, regs)
	b.mu.RUnlock()

	for _, l := range snapshot {
		if err := l.fn(payload); err != nil {
			return &CallbackError{Event: name, ListenerID: l.id, Err: err}
		}
	}
	return nil
}

// ListenerCount returns the number of callbacks registered for name.
func (b *bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners[name])
}

// EventNames returns the names with at least one listener.
func (b *bus) EventNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.listeners) == 0 {
		return nil
	}

	names := make([]string, 0, len(b.listeners))
	for name := range b.listeners {
		names = append(names, name)
	}
	return names
}
