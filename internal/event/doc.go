// Package event provides the synchronous publish/subscribe bus shared by
// every context in an appshell hierarchy.
//
// The bus maps event names to ordered lists of callbacks. Notify invokes
// every callback registered for a name, in registration order, on the
// caller's goroutine. There is no unsubscribe: registration is additive for
// the lifetime of the bus, which keeps dispatch free of removal races.
//
// The callback list is snapshotted when a dispatch starts. A callback that
// registers a new listener for the event it is currently handling will not
// see that listener invoked until the next Notify.
package event
