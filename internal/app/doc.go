// Package app provides the Context composition root.
//
// A Context is one node in a tree. The root creates the hierarchy's event
// bus, object store, localizer, and logger; every descendant shares those
// by reference and adds only its own settings layer, chained to the
// parent's. Settings therefore flow downward with child entries shadowing
// ancestor entries, while events are a flat broadcast: any context's Notify
// reaches any other context's Listen in the same hierarchy.
package app
