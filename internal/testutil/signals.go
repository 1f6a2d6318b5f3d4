package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Ramp returns 1, 2, ..., n.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// DecayingIR returns a noise burst under an exponential envelope, a rough
// stand-in for a measured impulse response.
func DecayingIR(seed int64, length int) []float64 {
	out := DeterministicNoise(seed, 1, length)
	tau := float64(length) / 4
	for i := range out {
		out[i] *= math.Exp(-float64(i) / tau)
	}
	return out
}

// Scaled returns a copy of in multiplied by gain.
func Scaled(in []float64, gain float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v * gain
	}
	return out
}
