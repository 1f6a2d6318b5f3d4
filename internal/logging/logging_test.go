package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range tests {
		got, err := ResolveLevel(tc.in)
		if err != nil {
			t.Fatalf("ResolveLevel(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ResolveLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ResolveLevel("loud"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("ResolveLevel(loud) error = %v", err)
	}
}

func TestNewFiltersAndTagsSession(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "index", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record logged at warn level:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "index=3") {
		t.Fatalf("missing record:\n%s", out)
	}
	if !strings.Contains(out, "session=") {
		t.Fatalf("missing session attribute:\n%s", out)
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binaural.log")

	for i := range 2 {
		logger, c, err := OpenFile(path, "info")
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		logger.Info("run", "n", i)
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "msg=run"); n != 2 {
		t.Fatalf("found %d records, want 2:\n%s", n, data)
	}

	if _, _, err := OpenFile(path, "nope"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("OpenFile with bad level: %v", err)
	}
}
