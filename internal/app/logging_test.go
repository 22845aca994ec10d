package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("sub-threshold messages were logged:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error messages:\n%s", out)
	}
}

func TestLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf, Prefix: "appshell"})

	logger.Info("hello")

	if !strings.Contains(buf.String(), "appshell: hello") {
		t.Errorf("output missing prefix: %q", buf.String())
	}
}

func TestLogger_Formatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.Info("count=%d name=%s", 3, "x")

	if !strings.Contains(buf.String(), "count=3 name=x") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.WithFields(map[string]any{"zeta": 1, "alpha": 2}).Info("msg")

	out := buf.String()
	if !strings.Contains(out, "{alpha=2, zeta=1}") {
		t.Errorf("fields not sorted: %q", out)
	}
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	derived := base.WithField("context", "abc")
	_ = derived

	base.Info("plain")
	if strings.Contains(buf.String(), "context=abc") {
		t.Errorf("derived field leaked into base logger: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"bogus", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
