package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-binaural/dsp/window"
)

// designPrototype returns a Kaiser-windowed sinc low-pass at the
// upsampled rate, normalised to a DC gain of up.
func designPrototype(up, down int, p profile) ([]float64, error) {
	n := p.tapsPerPhase * up

	fc := 0.5 / float64(max(up, down)) * p.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, n)
	center := 0.5 * float64(n-1)

	var sum float64
	for i := range taps {
		t := float64(i) - center
		taps[i] = 2 * fc * sinc(2*fc*t) * window.KaiserAt(i, n, p.kaiserBeta)
		sum += taps[i]
	}
	if sum == 0 {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	return taps, nil
}

// splitPhases distributes taps over up polyphase branches.
func splitPhases(taps []float64, up int) ([][]float64, int) {
	phases := make([][]float64, up)
	longest := 0

	for p := range up {
		phase := make([]float64, 0, (len(taps)-p+up-1)/up)
		for i := p; i < len(taps); i += up {
			phase = append(phase, taps[i])
		}
		longest = max(longest, len(phase))
		phases[p] = phase
	}

	return phases, longest
}

// approximateRatio finds num/den ≈ v with den <= maxDen by continued
// fractions.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)
		p2 := a*p1 + p0
		q2 := a*q1 + q0
		if q2 > float64(maxDen) {
			break
		}

		p0, q0 = p1, q1
		p1, q1 = p2, q2
	}

	num = int(math.Round(p1))
	den = int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		a = -a
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}
