package ir

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrSilentIR          = errors.New("ir: impulse response is silent")
)

// onsetThreshold is the fraction of the peak magnitude that marks the
// onset (-20 dB).
const onsetThreshold = 0.1

// Metrics holds single-ear analysis results.
type Metrics struct {
	PeakIndex  int     // sample index of the absolute maximum
	Peak       float64 // absolute maximum
	Onset      int     // first sample within -20 dB of the peak
	Energy     float64 // sum of squares
	EnergyDB   float64
	CenterTime float64 // energy centroid in seconds
}

// Interaural holds the cues of one left/right pair.
type Interaural struct {
	// ITD is the right-ear onset minus the left-ear onset in seconds.
	// Negative values mean the right ear leads (source on the right).
	ITD float64
	// ILD is the right-ear energy over the left-ear energy in dB.
	ILD float64

	Left, Right Metrics
}

// Analyzer computes IR metrics at one sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes the metrics of one ear.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmptyIR
	}
	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	peakIdx := findPeak(ir)
	peak := math.Abs(ir[peakIdx])
	if peak == 0 {
		return Metrics{}, ErrSilentIR
	}

	energy := 0.0
	for _, v := range ir {
		energy += v * v
	}

	return Metrics{
		PeakIndex:  peakIdx,
		Peak:       peak,
		Onset:      findImpulseStart(ir, peak*onsetThreshold),
		Energy:     energy,
		EnergyDB:   core.LinearPowerToDB(energy),
		CenterTime: a.centerTime(ir, energy),
	}, nil
}

// Interaural analyzes both ears and derives the pair's cues.
func (a *Analyzer) Interaural(left, right []float64) (Interaural, error) {
	l, err := a.Analyze(left)
	if err != nil {
		return Interaural{}, err
	}
	r, err := a.Analyze(right)
	if err != nil {
		return Interaural{}, err
	}

	return Interaural{
		ITD:   float64(r.Onset-l.Onset) / a.SampleRate,
		ILD:   r.EnergyDB - l.EnergyDB,
		Left:  l,
		Right: r,
	}, nil
}

// FindImpulseStart returns the index of the first sample within -20 dB of
// the peak magnitude.
func (a *Analyzer) FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	peak := math.Abs(ir[findPeak(ir)])
	if peak == 0 {
		return 0, ErrSilentIR
	}
	return findImpulseStart(ir, peak*onsetThreshold), nil
}

func (a *Analyzer) centerTime(ir []float64, energy float64) float64 {
	if energy <= 0 {
		return 0
	}

	var weighted float64
	for i, v := range ir {
		weighted += float64(i) * v * v
	}
	return weighted / energy / a.SampleRate
}

func findImpulseStart(ir []float64, threshold float64) int {
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i
		}
	}
	return 0
}

func findPeak(ir []float64) int {
	idx := 0
	peak := 0.0
	for i, v := range ir {
		if av := math.Abs(v); av > peak {
			peak = av
			idx = i
		}
	}
	return idx
}
