package conv

import (
	"errors"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput       = errors.New("conv: empty input")
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrLengthMismatch   = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
	ErrNotLoaded        = errors.New("conv: no input block loaded")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) algorithm. It serves as the reference that the
// block engine is checked against.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)

	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}

	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, h := range b {
			dst[i+j] += x * h
		}
	}
}

// DirectTruncated returns the first len(a) samples of the linear
// convolution of a and b, the length a streaming filter produces for a
// finite input.
func DirectTruncated(a, b []float64) ([]float64, error) {
	full, err := Direct(a, b)
	if err != nil {
		return nil, err
	}

	return full[:len(a)], nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
