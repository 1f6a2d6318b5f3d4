// Package logging builds the slog loggers used by the binaural commands.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidLevel is returned for unknown level names.
var ErrInvalidLevel = errors.New("logging: invalid log level")

// Levels lists the accepted level names, lowest first.
var Levels = []string{"debug", "info", "warn", "error"}

// ResolveLevel maps a level name to a slog level.
func ResolveLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
}

// New returns a text logger writing to w at the named level. Every record
// carries a session attribute so interleaved runs in one log file can be
// told apart.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ResolveLevel(level)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(handler).With("session", uuid.NewString()), nil
}

// OpenFile returns a logger appending to path and the file to close when
// done.
func OpenFile(path, level string) (*slog.Logger, io.Closer, error) {
	if _, err := ResolveLevel(level); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	logger, err := New(f, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}
