// Package watcher provides file watching for settings live reload.
//
// The watcher monitors settings files for changes and invokes registered
// handlers when modifications are detected, debouncing the bursts of events
// editors produce on save.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window during which repeated events for the same
// file collapse into one handler invocation.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned when operations are attempted on a closed
// watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Event represents a settings file change.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event was observed.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates the file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a watched file changes.
type Handler func(event Event)

// Watcher monitors settings files for changes.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	files    map[string]bool // watched file paths
	handlers []Handler
	pending  map[string]*time.Timer
	debounce time.Duration
	closed   bool
	done     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher. Callers must Close it when done.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		pending:  make(map[string]*time.Timer),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.loop()
	return w, nil
}

// Watch adds a file to the watch set. The file's directory is watched so
// that atomic save strategies (write temp, rename over target) still
// produce events for the target path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", abs, err)
	}
	w.files[abs] = true
	return nil
}

// OnChange registers a handler invoked for every debounced change.
func (w *Watcher) OnChange(h Handler) {
	if h == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.handlers = append(w.handlers, h)
}

// Close stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

// loop translates fsnotify events into debounced handler calls.
func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFsEvent(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient (e.g. a directory briefly
			// missing during an atomic save); the next event for the
			// file re-establishes delivery.
		}
	}
}

func (w *Watcher) handleFsEvent(ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[abs] {
		return
	}

	op := OpWrite
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Has(fsnotify.Rename):
		op = OpRename
	case ev.Has(fsnotify.Write):
		op = OpWrite
	default:
		return // chmod-only events are noise
	}

	// Collapse bursts: the last operation within the window wins.
	if timer, ok := w.pending[abs]; ok {
		timer.Stop()
	}
	w.pending[abs] = time.AfterFunc(w.debounce, func() {
		w.fire(Event{Path: abs, Op: op, Time: time.Now()})
	})
}

func (w *Watcher) fire(ev Event) {
	w.mu.Lock()
	delete(w.pending, ev.Path)
	if w.closed {
		w.mu.Unlock()
		return
	}
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
