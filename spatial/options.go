package spatial

import (
	"errors"
	"fmt"
	"log/slog"
)

// Option configures a Renderer at construction.
type Option func(*rendererConfig) error

// ViolationHandler is told about Render calls whose buffer does not match
// the block size. got and want count samples of the buffer passed.
type ViolationHandler func(got, want int)

type rendererConfig struct {
	transformSize int
	fadeBlocks    int
	logger        *slog.Logger
	onViolation   ViolationHandler
}

func defaultRendererConfig() rendererConfig {
	return rendererConfig{
		fadeBlocks: DefaultFadeBlocks,
		logger:     slog.New(slog.DiscardHandler),
	}
}

// WithTransformSize sets the FFT size N. Zero, or any size below the
// filter length, selects the smallest power of two >= the filter length.
func WithTransformSize(n int) Option {
	return func(cfg *rendererConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrTransformSize, n)
		}
		cfg.transformSize = n
		return nil
	}
}

// WithFadeBlocks sets the crossfade length in blocks.
func WithFadeBlocks(n int) Option {
	return func(cfg *rendererConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: got %d", ErrFadeBlocks, n)
		}
		cfg.fadeBlocks = n
		return nil
	}
}

// WithLogger sets the logger for filter switches and block size
// violations.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *rendererConfig) error {
		if logger == nil {
			return errors.New("spatial: logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithViolationHandler installs a callback for block size violations. It
// runs on the render goroutine and must return quickly.
func WithViolationHandler(fn ViolationHandler) Option {
	return func(cfg *rendererConfig) error {
		cfg.onViolation = fn
		return nil
	}
}
