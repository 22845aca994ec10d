// Package loader loads settings entries from external sources.
//
// Loaders produce plain map[string]any trees suitable for Store.Load; they
// do not touch stores themselves, so callers decide which node in a context
// hierarchy a source feeds.
package loader

// Loader is a source of settings entries.
type Loader interface {
	// Load returns the entries from the source. A missing source returns
	// a nil map and a nil error.
	Load() (map[string]any, error)
}

var (
	_ Loader = (*TOMLLoader)(nil)
	_ Loader = (*EnvLoader)(nil)
)
