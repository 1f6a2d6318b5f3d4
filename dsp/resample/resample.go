package resample

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrInvalidOption indicates an out-of-range option value.
	ErrInvalidOption = errors.New("resample: invalid option")
)

// Quality selects the anti-aliasing filter.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityBest:
		return "best"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// profile holds the filter parameters of a quality mode.
type profile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func qualityProfile(q Quality) profile {
	switch q {
	case QualityFast:
		return profile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5.0}
	case QualityBest:
		return profile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9.0}
	default:
		return profile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures a resampler.
type Option func(*config) error

// WithQuality selects the anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) error {
		if q < QualityFast || q > QualityBest {
			return fmt.Errorf("%w: quality %d", ErrInvalidOption, int(q))
		}
		cfg.quality = q
		return nil
	}
}

// WithMaxDenominator caps the denominator used to approximate a rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: max denominator must be > 0, got %d", ErrInvalidOption, n)
		}
		cfg.maxDen = n
		return nil
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// Resampler performs rational sample-rate conversion by up/down.
type Resampler struct {
	up   int
	down int

	phases   [][]float64
	phaseLen int
	delay    float64 // group delay in output samples

	phase      int
	inputIndex int
	totalIn    int
	history    []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	g := gcd(up, down)
	up /= g
	down /= g

	taps, err := designPrototype(up, down, qualityProfile(cfg.quality))
	if err != nil {
		return nil, err
	}
	phases, phaseLen := splitPhases(taps, up)

	return &Resampler{
		up:       up,
		down:     down,
		phases:   phases,
		phaseLen: phaseLen,
		delay:    0.5 * float64(len(taps)-1) / float64(down),
		history:  make([]float64, 0, max(0, phaseLen-1)),
	}, nil
}

// NewForRates creates a resampler by approximating outRate/inRate.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrInvalidRate, inRate, outRate)
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	up, down := approximateRatio(outRate/inRate, cfg.maxDen)
	return NewRational(up, down, opts...)
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}

// Convert resamples a complete signal from inRate to outRate. The output
// is aligned with the input (filter delay removed) and holds
// ceil(len(input)*outRate/inRate) samples. Equal rates return a copy.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrInvalidRate, inRate, outRate)
	}
	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	want := int(math.Ceil(float64(len(input)) * float64(r.up) / float64(r.down)))
	skip := int(math.Round(r.delay))

	out := r.Process(input)
	// Flush with silence until the delayed tail is out.
	flush := make([]float64, r.phaseLen+1)
	for len(out) < skip+want {
		out = append(out, r.Process(flush)...)
	}

	return out[skip : skip+want], nil
}

// Reset clears the streaming state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.history = r.history[:0]
}

// Process converts a block and keeps state for the next call.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, 0, r.PredictOutputLen(len(input)))

	work := make([]float64, len(r.history)+len(input))
	copy(work, r.history)
	copy(work[len(r.history):], input)

	base := r.totalIn - len(r.history)
	last := r.totalIn + len(input) - 1

	for r.inputIndex <= last {
		var y float64
		for k, c := range r.phases[r.phase] {
			idx := r.inputIndex - k
			if idx < base {
				break
			}
			y += c * work[idx-base]
		}
		out = append(out, y)

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)

	keep := min(max(0, r.phaseLen-1), len(work))
	r.history = append(r.history[:0], work[len(work)-keep:]...)

	return out
}

// PredictOutputLen returns the number of samples the next Process call
// produces for inputLen input samples.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	last := r.totalIn + inputLen - 1
	i, phase := r.inputIndex, r.phase

	count := 0
	for i <= last {
		count++
		phase += r.down
		i += phase / r.up
		phase %= r.up
	}

	return count
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Delay returns the filter's group delay in output samples.
func (r *Resampler) Delay() float64 {
	return r.delay
}
