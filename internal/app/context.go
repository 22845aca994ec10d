package app

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/dshills/appshell/internal/event"
	"github.com/dshills/appshell/internal/locale"
	"github.com/dshills/appshell/internal/settings"
	"github.com/dshills/appshell/internal/store"
)

// EventLocaleChanged is notified on the hierarchy bus after the active
// locale changes. The payload is the new locale's BCP 47 string.
const EventLocaleChanged = "locale.changed"

// ChildFactory constructs a child component under the given parent. The
// constructed value is discarded; factories are expected to register their
// side effects (event listeners, settings) during construction.
type ChildFactory func(parent *Context) error

// Context bundles a settings layer, the hierarchy's shared event bus, and
// the object storage and locale collaborators into one handle passed to
// child components.
type Context struct {
	id       string
	parent   *Context
	bus      event.Bus
	settings *settings.Store

	objects   store.Store
	localizer locale.Localizer
	logger    *Logger
}

// New creates a root context with a fresh bus and a parentless settings
// layer. Collaborators default to an in-memory object store, an
// environment-detected localizer, and a stderr logger.
func New(opts ...Option) *Context {
	c := &Context{
		id:       uuid.NewString(),
		bus:      event.New(),
		settings: settings.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.objects == nil {
		c.objects = store.NewMemory()
	}
	if c.localizer == nil {
		c.localizer = locale.New()
	}
	if c.logger == nil {
		c.logger = NewLogger(DefaultLoggerConfig())
	}
	c.logger = c.logger.WithField("context", c.id)

	// Locale changes are broadcast on the hierarchy bus so dependent
	// components can re-render.
	if hooked, ok := c.localizer.(interface{ OnChange(locale.ChangeHook) }); ok {
		bus := c.bus
		logger := c.logger
		hooked.OnChange(func(tag language.Tag) {
			if err := bus.Notify(EventLocaleChanged, tag.String()); err != nil {
				logger.Error("locale change notification failed: %v", err)
			}
		})
	}

	return c
}

// NewChild creates a context under parent. The child shares the parent's
// bus, object store, localizer, and logger by reference and chains a new
// settings layer to the parent's. Panics on a nil parent.
func NewChild(parent *Context) *Context {
	if parent == nil {
		panic("app: NewChild called with nil parent")
	}

	id := uuid.NewString()
	return &Context{
		id:        id,
		parent:    parent,
		bus:       parent.bus,
		settings:  settings.NewChild(parent.settings),
		objects:   parent.objects,
		localizer: parent.localizer,
		logger:    parent.logger.WithField("context", id),
	}
}

// ID returns the context's identity, assigned at construction.
func (c *Context) ID() string {
	return c.id
}

// Parent returns the enclosing context, or nil at the root.
//
// Prefer events for cross-context communication; reaching through the
// parent couples a child to its position in the tree.
func (c *Context) Parent() *Context {
	return c.parent
}

// Settings returns the flattened settings snapshot visible from this node:
// ancestor entries overlaid root-first, with this context's own entries
// shadowing identically-keyed ones.
func (c *Context) Settings() map[string]any {
	return c.settings.Items()
}

// Setting retrieves one value from the flattened view by dot-separated
// path.
func (c *Context) Setting(path string) (any, bool) {
	return c.settings.Get(path)
}

// AddSettings merges entries into this context's own settings layer. The
// entries are visible here and to descendants, never to ancestors or
// siblings.
func (c *Context) AddSettings(entries map[string]any) {
	c.settings.Load(entries)
}

// Listen registers fn for name on the hierarchy bus.
func (c *Context) Listen(name string, fn event.Callback) error {
	return c.bus.Listen(name, fn)
}

// Notify broadcasts payload to every listener for name anywhere in the
// hierarchy. There is no directional bubbling; the bus is flat.
func (c *Context) Notify(name string, payload any) error {
	return c.bus.Notify(name, payload)
}

// PersistObject stores value under key in the object store.
func (c *Context) PersistObject(key string, value any) error {
	return c.objects.Persist(key, value)
}

// RetrieveObject returns the stored value for key, or store.ErrNotFound.
func (c *Context) RetrieveObject(key string) (any, error) {
	return c.objects.Retrieve(key)
}

// RemoveObject deletes the value under key. Removing an absent key is not
// an error.
func (c *Context) RemoveObject(key string) error {
	return c.objects.Remove(key)
}

// SetLanguage switches the process-wide active locale.
func (c *Context) SetLanguage(code string) error {
	return c.localizer.SetLanguage(code)
}

// ClearLanguage reverts the active locale to the auto-detected default.
func (c *Context) ClearLanguage() {
	c.localizer.ClearLanguage()
}

// Language returns the active locale.
func (c *Context) Language() language.Tag {
	return c.localizer.Current()
}

// Logger returns this context's logger.
func (c *Context) Logger() *Logger {
	return c.logger
}

// LoadChildren constructs each child under this context, discarding the
// results; construction side effects are the point. Iteration order over
// the map is unspecified and children must not rely on it. The first
// factory error aborts the remaining constructions and propagates.
func (c *Context) LoadChildren(children map[string]ChildFactory) error {
	for key, factory := range children {
		if factory == nil {
			return fmt.Errorf("loading child %q: %w", key, ErrNilFactory)
		}
		if err := factory(c); err != nil {
			return fmt.Errorf("loading child %q: %w", key, err)
		}
		c.logger.Debug("loaded child %q", key)
	}
	return nil
}
