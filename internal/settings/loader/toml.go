package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads settings from a TOML file.
type TOMLLoader struct {
	path string
}

// NewTOMLLoader creates a TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{path: path}
}

// Path returns the file path this loader reads.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads settings from the configured path. A missing file is not an
// error; it yields a nil map.
func (l *TOMLLoader) Load() (map[string]any, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", l.path, err)
	}

	return l.parse(l.path, data)
}

// LoadFromReader reads settings from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	return l.parse("<reader>", data)
}

func (l *TOMLLoader) parse(name string, data []byte) (map[string]any, error) {
	var entries map[string]any
	if err := toml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", name, err)
	}
	return entries, nil
}
