package app

import (
	"github.com/dshills/appshell/internal/locale"
	"github.com/dshills/appshell/internal/store"
)

// Option configures a root Context. Options apply only at the root; child
// contexts inherit the root's collaborators.
type Option func(*Context)

// WithObjectStore sets the object storage collaborator.
func WithObjectStore(s store.Store) Option {
	return func(c *Context) {
		if s != nil {
			c.objects = s
		}
	}
}

// WithLocalizer sets the locale-switching collaborator.
func WithLocalizer(l locale.Localizer) Option {
	return func(c *Context) {
		if l != nil {
			c.localizer = l
		}
	}
}

// WithLogger sets the hierarchy's logger.
func WithLogger(logger *Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}
