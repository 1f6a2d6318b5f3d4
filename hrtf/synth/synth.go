// Package synth generates HRIR databases from a rigid spherical head
// model, so the renderer can run without measured data.
//
// Each ear receives a delayed, shadowed impulse. The interaural delay
// follows Woodworth's formula (a/c)(θ + sin θ) for lateral angle θ and
// is rounded to whole samples. The far ear is attenuated and low-passed
// with a one-pole filter whose strength grows with |sin θ|. Positive
// azimuth is to the listener's right.
package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-binaural/dsp/window"
	"github.com/cwbudde/algo-binaural/hrtf"
)

// SpeedOfSound in air at 20 °C, m/s.
const SpeedOfSound = 343.0

// Defaults for Generate.
const (
	DefaultSampleRate    = 44100.0
	DefaultLength        = 256
	DefaultHeadRadius    = 0.0875
	DefaultRadius        = 1.2
	DefaultAzimuthStep   = 10.0
	DefaultElevationStep = 10.0
	DefaultMinElevation  = -40.0
)

// onsetDelay is the near-ear delay in samples, leaving room before the
// impulse for the shadow filter to settle.
const onsetDelay = 4

// ErrInvalidOption is returned for out-of-range generator options.
var ErrInvalidOption = errors.New("synth: invalid option")

// Option configures Generate.
type Option func(*config) error

type config struct {
	sampleRate    float64
	length        int
	headRadius    float64
	radius        float64
	azimuthStep   float64
	elevationStep float64
	minElevation  float64
}

func defaultConfig() config {
	return config{
		sampleRate:    DefaultSampleRate,
		length:        DefaultLength,
		headRadius:    DefaultHeadRadius,
		radius:        DefaultRadius,
		azimuthStep:   DefaultAzimuthStep,
		elevationStep: DefaultElevationStep,
		minElevation:  DefaultMinElevation,
	}
}

func positive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be > 0 and finite, got %v", ErrInvalidOption, name, v)
	}
	return nil
}

// WithSampleRate sets the sampling rate in Hz.
func WithSampleRate(fs float64) Option {
	return func(cfg *config) error {
		if err := positive("sample rate", fs); err != nil {
			return err
		}
		cfg.sampleRate = fs
		return nil
	}
}

// WithLength sets the impulse response length in samples.
func WithLength(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: length must be >= 1, got %d", ErrInvalidOption, n)
		}
		cfg.length = n
		return nil
	}
}

// WithHeadRadius sets the sphere radius in metres.
func WithHeadRadius(r float64) Option {
	return func(cfg *config) error {
		if err := positive("head radius", r); err != nil {
			return err
		}
		cfg.headRadius = r
		return nil
	}
}

// WithRadius sets the source distance recorded in every position.
func WithRadius(r float64) Option {
	return func(cfg *config) error {
		if err := positive("radius", r); err != nil {
			return err
		}
		cfg.radius = r
		return nil
	}
}

// WithGrid sets the azimuth and elevation spacing in degrees.
func WithGrid(azimuthStep, elevationStep float64) Option {
	return func(cfg *config) error {
		if err := positive("azimuth step", azimuthStep); err != nil {
			return err
		}
		if err := positive("elevation step", elevationStep); err != nil {
			return err
		}
		cfg.azimuthStep = azimuthStep
		cfg.elevationStep = elevationStep
		return nil
	}
}

// WithMinElevation sets the lowest elevation of the grid in degrees.
func WithMinElevation(el float64) Option {
	return func(cfg *config) error {
		if el < hrtf.MinElevation || el > hrtf.MaxElevation || math.IsNaN(el) {
			return fmt.Errorf("%w: minimum elevation %v outside [-90, 90]", ErrInvalidOption, el)
		}
		cfg.minElevation = el
		return nil
	}
}

// Generate builds a repository on a regular grid. Azimuths run from -180
// up to but excluding 180; the zenith holds a single entry.
func Generate(opts ...Option) (*hrtf.Repository, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	taper := fadeOut(cfg.length)

	var entries []hrtf.Entry
	for el := cfg.minElevation; el <= hrtf.MaxElevation; el += cfg.elevationStep {
		if el == hrtf.MaxElevation {
			entries = append(entries, cfg.entry(hrtf.Direction{Elevation: el}, taper))
			break
		}
		for az := -180.0; az < 180; az += cfg.azimuthStep {
			entries = append(entries, cfg.entry(hrtf.Direction{Azimuth: az, Elevation: el}, taper))
		}
	}

	return hrtf.New(cfg.sampleRate, entries)
}

// Pair returns the left and right impulse responses for one direction
// with default settings adjusted by opts.
func Pair(d hrtf.Direction, opts ...Option) (left, right []float64, err error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, nil, err
		}
	}

	e := cfg.entry(d, fadeOut(cfg.length))
	return e.Left, e.Right, nil
}

func (cfg config) entry(d hrtf.Direction, taper []float64) hrtf.Entry {
	az := d.Azimuth * math.Pi / 180
	el := d.Elevation * math.Pi / 180

	// Lateral angle, positive towards the right ear.
	lateral := math.Asin(math.Cos(el) * math.Sin(az))
	shadow := math.Abs(math.Sin(lateral))

	itd := cfg.headRadius / SpeedOfSound * (math.Abs(lateral) + shadow)
	farDelay := onsetDelay + int(math.Round(itd*cfg.sampleRate))

	near := make([]float64, cfg.length)
	far := make([]float64, cfg.length)

	impulse(near, onsetDelay, 1+0.25*shadow, 0)
	impulse(far, farDelay, 1-0.5*shadow, 0.7*shadow)

	vecmath.MulBlockInPlace(near, taper)
	vecmath.MulBlockInPlace(far, taper)

	// Positive lateral angles put the source on the right.
	left, right := far, near
	if lateral < 0 {
		left, right = near, far
	}

	return hrtf.Entry{
		Position: hrtf.Position{Direction: d, Radius: cfg.radius},
		Left:     left,
		Right:    right,
	}
}

// impulse writes the response of a one-pole low-pass with pole p to a
// scaled impulse at delay into dst. The filter has unity DC gain.
func impulse(dst []float64, delay int, gain, p float64) {
	if delay >= len(dst) {
		return
	}

	y := gain * (1 - p)
	for i := delay; i < len(dst); i++ {
		dst[i] = y
		y *= p
	}
}

// fadeOut returns a window that is flat for the first half and falls to
// zero along a half Hann over the second half.
func fadeOut(n int) []float64 {
	return window.Generate(window.TypeHann, n, window.WithSlope(window.SlopeRight))
}
