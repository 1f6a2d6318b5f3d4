// Package window generates the tapering windows used for filter design and
// impulse response shaping.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeKaiser
	TypeTukey
)

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeKaiser:
		return "Kaiser"
	case TypeTukey:
		return "Tukey"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Slope controls which edge(s) of the window are tapered. A one-sided
// slope keeps the flat half at 1 and the tapered half of the symmetric
// window unchanged.
type Slope int

const (
	SlopeSymmetric Slope = iota
	SlopeLeft
	SlopeRight
)

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
	slope    Slope
}

func defaultConfig() config {
	return config{
		alpha: 1,
		slope: SlopeSymmetric,
	}
}

// WithAlpha sets the shape parameter: beta for Kaiser, the tapered
// fraction for Tukey. Negative values are ignored.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic selects the periodic form (FFT framing) instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithSlope configures edge tapering mode.
func WithSlope(s Slope) Option {
	return func(c *config) {
		c.slope = s
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic), cfg)
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	return Generate(TypeHann, size, opts...), nil
}

// Kaiser returns Kaiser window coefficients for shape parameter beta.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	if beta < 0 {
		return nil, fmt.Errorf("kaiser beta must be >= 0: %f", beta)
	}
	return Generate(TypeKaiser, size, append(opts, WithAlpha(beta))...), nil
}

// Tukey returns Tukey window coefficients. alpha is the tapered fraction
// of the window: 0 is rectangular, 1 is Hann.
func Tukey(size int, alpha float64, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("tukey alpha must be in [0,1]: %f", alpha)
	}
	return Generate(TypeTukey, size, append(opts, WithAlpha(alpha))...), nil
}

// KaiserAt evaluates a Kaiser window of n points at index i without
// allocating.
func KaiserAt(i, n int, beta float64) float64 {
	return kaiserAt(samplePosition(i, n, false), beta)
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	switch cfg.slope {
	case SlopeLeft:
		if x >= 0.5 {
			return 1
		}
	case SlopeRight:
		if x <= 0.5 {
			return 1
		}
	}

	x = math.Max(0, math.Min(1, x))

	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeKaiser:
		return kaiserAt(x, cfg.alpha)
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	default:
		return 1
	}
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	return besselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / besselI0(beta)
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}
	if alpha >= 1 {
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}

// besselI0 evaluates the zeroth-order modified Bessel function by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	x2 := x * x / 4

	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
