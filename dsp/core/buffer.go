// Package core holds numeric and buffer helpers shared by the DSP and
// rendering packages.
package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Zero32 sets all values in buf to 0.
func Zero32(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// Interleave writes left and right as L/R frames into dst and returns the
// number of frames written. dst must hold 2*len(left) samples.
func Interleave(dst []float32, left, right []float64) int {
	n := min(len(left), len(right), len(dst)/2)
	for i := range n {
		dst[2*i] = float32(left[i])
		dst[2*i+1] = float32(right[i])
	}
	return n
}

// Deinterleave splits interleaved L/R frames into left and right and
// returns the number of frames read.
func Deinterleave(left, right []float64, src []float32) int {
	n := min(len(left), len(right), len(src)/2)
	for i := range n {
		left[i] = float64(src[2*i])
		right[i] = float64(src[2*i+1])
	}
	return n
}
