package loader

import (
	"reflect"
	"testing"
)

// envLoaderFor returns a loader that reads from a fixed environment slice
// instead of the process environment.
func envLoaderFor(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoaderWithPrefix(prefix)
	l.environ = func() []string { return environ }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := envLoaderFor("APPSHELL_", []string{
		"APPSHELL_LANG=en",
		"APPSHELL_DEBUG=true",
		"APPSHELL_UI__FONT_SIZE=14",
		"APPSHELL_UI__SCALE=1.5",
		"UNRELATED=ignored",
		"APPSHELLX_LANG=ignored",
	})

	entries, err := l.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := map[string]any{
		"lang":  "en",
		"debug": true,
		"ui": map[string]any{
			"font_size": int64(14),
			"scale":     1.5,
		},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Load() = %v, want %v", entries, want)
	}
}

func TestEnvLoader_NoMatches(t *testing.T) {
	l := envLoaderFor("APPSHELL_", []string{"OTHER=1"})

	entries, err := l.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"3.25", 3.25},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
