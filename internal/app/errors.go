package app

import "errors"

// ErrNilFactory is returned by LoadChildren when a nil factory is supplied.
var ErrNilFactory = errors.New("child factory cannot be nil")
