// Package level computes time-domain level statistics of rendered audio.
package level

import (
	"math"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// FullScale is the magnitude at which fixed-point output clips.
const FullScale = 1.0

// Stats holds level statistics of one channel.
type Stats struct {
	Frames        int
	DC            float64 // mean
	RMS           float64
	RMSDB         float64
	Peak          float64 // max |x|
	PeakDB        float64
	PeakPos       int
	CrestFactorDB float64 // peak over RMS
	Clipped       int     // samples at or beyond full scale
}

func emptyStats() Stats {
	return Stats{
		RMSDB:         math.Inf(-1),
		PeakDB:        math.Inf(-1),
		CrestFactorDB: math.Inf(-1),
	}
}

// Calculate computes all statistics in one pass.
func Calculate(signal []float64) Stats {
	if len(signal) == 0 {
		return emptyStats()
	}

	var (
		sum, c  float64 // Kahan-compensated sum for DC
		sumSq   float64
		peak    float64
		peakPos int
		clipped int
	)

	for i, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t

		sumSq += x * x

		a := math.Abs(x)
		if a > peak {
			peak = a
			peakPos = i
		}
		if a >= FullScale {
			clipped++
		}
	}

	n := float64(len(signal))
	rms := math.Sqrt(sumSq / n)

	s := Stats{
		Frames:        len(signal),
		DC:            sum / n,
		RMS:           rms,
		RMSDB:         core.LinearToDB(rms),
		Peak:          peak,
		PeakDB:        core.LinearToDB(peak),
		PeakPos:       peakPos,
		CrestFactorDB: math.Inf(-1),
		Clipped:       clipped,
	}
	if rms > 0 {
		s.CrestFactorDB = core.LinearToDB(peak / rms)
	}

	return s
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		peak = max(peak, math.Abs(x))
	}
	return peak
}
