package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// File is a Store backed by a single JSON document on disk. Each key is a
// top-level field in the document; values go through a JSON round trip, so
// Retrieve returns json.Unmarshal's representation (float64 for numbers,
// map[string]any for objects).
//
// Writes are atomic: the document is written to a sibling temp file and
// renamed over the target.
type File struct {
	mu     sync.Mutex
	path   string
	doc    []byte
	loaded bool
}

// NewFile creates a file store at path. The file is created on first
// Persist; a missing file reads as empty.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Persist stores value under key, replacing any existing value.
func (f *File) Persist(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding object %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return err
	}

	doc, err := sjson.SetRawBytes(f.doc, escapeKey(key), raw)
	if err != nil {
		return fmt.Errorf("storing object %s: %w", key, err)
	}

	return f.flush(doc)
}

// Retrieve returns the value stored under key, or ErrNotFound.
func (f *File) Retrieve(key string) (any, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return nil, err
	}

	result := gjson.GetBytes(f.doc, escapeKey(key))
	if !result.Exists() {
		return nil, ErrNotFound
	}
	return result.Value(), nil
}

// Remove deletes the value under key, if present.
func (f *File) Remove(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return err
	}

	if !gjson.GetBytes(f.doc, escapeKey(key)).Exists() {
		return nil
	}

	doc, err := sjson.DeleteBytes(f.doc, escapeKey(key))
	if err != nil {
		return fmt.Errorf("removing object %s: %w", key, err)
	}

	return f.flush(doc)
}

// load reads the document from disk once. Must hold f.mu.
func (f *File) load() error {
	if f.loaded {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.doc = []byte("{}")
			f.loaded = true
			return nil
		}
		return fmt.Errorf("reading object store %s: %w", f.path, err)
	}

	if len(data) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("object store %s: document is not valid JSON", f.path)
	}

	f.doc = data
	f.loaded = true
	return nil
}

// flush writes doc to disk atomically and keeps it as the in-memory copy.
// Must hold f.mu.
func (f *File) flush(doc []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating object store dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".objects-*.json")
	if err != nil {
		return fmt.Errorf("writing object store %s: %w", f.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing object store %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing object store %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing object store %s: %w", f.path, err)
	}

	f.doc = doc
	return nil
}

// escapeKey makes an arbitrary key usable as a single-segment gjson path.
var keyEscaper = strings.NewReplacer(
	"\\", "\\\\",
	".", "\\.",
	"*", "\\*",
	"?", "\\?",
)

func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
