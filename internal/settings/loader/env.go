package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix scanned by NewEnvLoader.
const DefaultEnvPrefix = "APPSHELL_"

// EnvLoader loads settings from prefixed environment variables.
//
// The variable name after the prefix becomes a settings path: single
// underscores separate words within a key, double underscores separate path
// segments. APPSHELL_UI__FONT_SIZE=14 becomes ui.font_size = 14.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a loader for DefaultEnvPrefix-prefixed variables.
func NewEnvLoader() *EnvLoader {
	return NewEnvLoaderWithPrefix(DefaultEnvPrefix)
}

// NewEnvLoaderWithPrefix creates a loader for the given prefix. The prefix
// should include the trailing underscore.
func NewEnvLoaderWithPrefix(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Load scans the environment and returns the matching entries as a nested
// map. No matching variables yields a nil map.
func (l *EnvLoader) Load() (map[string]any, error) {
	var entries map[string]any

	for _, env := range l.environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env[len(l.prefix):], "=")
		if !ok || name == "" {
			continue
		}

		if entries == nil {
			entries = make(map[string]any)
		}
		setPath(entries, l.pathFor(name), parseValue(value))
	}

	return entries, nil
}

// pathFor converts an env var suffix to a dot-separated settings path.
func (l *EnvLoader) pathFor(name string) string {
	segments := strings.Split(strings.ToLower(name), "__")
	return strings.Join(segments, ".")
}

// parseValue converts an env var string into a typed value.
// Booleans and integers are recognized; everything else stays a string.
func parseValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
