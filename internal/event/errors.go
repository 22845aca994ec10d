package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrEmptyName is returned when an event name is empty.
	ErrEmptyName = errors.New("event name is empty")

	// ErrNilCallback is returned when a nil callback is registered.
	ErrNilCallback = errors.New("callback cannot be nil")
)

// CallbackError wraps an error returned by a callback with the event that
// was being delivered when it failed.
type CallbackError struct {
	// Event is the event name being dispatched.
	Event string

	// ListenerID identifies the registration whose callback failed.
	ListenerID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return "callback failed for event " + e.Event + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}
