package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// minTransformSize is the smallest FFT size the engine plans.
const minTransformSize = 2

// Transfer is the frequency-domain representation of one FIR filter,
// zero-padded to the transform size of the BlockEngine that produced it.
//
// A Transfer is computed once per filter and reused for every block the
// filter is applied to.
type Transfer struct {
	bins []complex128
}

// Len returns the number of frequency bins (the transform size).
func (t *Transfer) Len() int {
	return len(t.bins)
}

// BlockEngine implements streaming overlap-save convolution for filters of
// one fixed length M against input chunks of at most L = N - M + 1 samples.
//
// The engine itself carries no signal history. Callers pass the previous
// M-1 input samples (the tail) with every chunk and receive the updated
// tail back, which lets several filters share one input history and stay
// time-aligned.
//
// Processing a block is split in two steps so one forward transform can be
// reused across several filters:
//
//	engine.Load(tail, chunk)     // window = tail ++ chunk, forward FFT
//	engine.Apply(outL, leftH)    // multiply, inverse FFT, keep last L
//	engine.Apply(outR, rightH)
//	engine.Tail(tail)            // last M-1 input samples
//
// ConvolveBlock performs all three for a single filter.
//
// A BlockEngine is not safe for concurrent use. All buffers are allocated
// at construction; none of the per-block methods allocate.
type BlockEngine struct {
	filterLen int // M
	fftSize   int // N
	stepSize  int // L = N - M + 1

	plan *algofft.Plan[complex128]

	window   []float64    // tail ++ chunk, zero-padded to N
	spectrum []complex128 // FFT of window
	product  []complex128 // spectrum * H, inverse transformed in place

	chunkLen int // input samples in the loaded window after the tail
	loaded   bool
}

// NewBlockEngine creates an overlap-save engine for filters of length
// filterLen. transformSize is the requested FFT size N; when it is smaller
// than filterLen (including zero) the next power of two >= filterLen is
// used, and sizes that are not a power of two are rounded up.
func NewBlockEngine(filterLen, transformSize int) (*BlockEngine, error) {
	if filterLen <= 0 {
		return nil, ErrEmptyKernel
	}
	if transformSize < 0 {
		return nil, fmt.Errorf("%w: transform size must not be negative, got %d", ErrInvalidBlockSize, transformSize)
	}

	fftSize := transformSize
	if fftSize < filterLen {
		fftSize = nextPowerOf2(filterLen)
	} else if !isPowerOf2(fftSize) {
		fftSize = nextPowerOf2(fftSize)
	}
	fftSize = max(fftSize, minTransformSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	return &BlockEngine{
		filterLen: filterLen,
		fftSize:   fftSize,
		stepSize:  fftSize - filterLen + 1,
		plan:      plan,
		window:    make([]float64, fftSize),
		spectrum:  make([]complex128, fftSize),
		product:   make([]complex128, fftSize),
	}, nil
}

// FilterLen returns the filter length M.
func (e *BlockEngine) FilterLen() int {
	return e.filterLen
}

// TransformSize returns the FFT size N.
func (e *BlockEngine) TransformSize() int {
	return e.fftSize
}

// StepSize returns L, the number of valid output samples per block.
func (e *BlockEngine) StepSize() int {
	return e.stepSize
}

// TailLen returns the length of the input history carried between blocks.
func (e *BlockEngine) TailLen() int {
	return e.filterLen - 1
}

// NewTransfer computes the transfer function of ir, which must have length M.
func (e *BlockEngine) NewTransfer(ir []float64) (*Transfer, error) {
	t := &Transfer{}
	if err := e.LoadTransfer(t, ir); err != nil {
		return nil, err
	}

	return t, nil
}

// LoadTransfer computes the transfer function of ir into dst, reusing its
// storage when dst was produced by an engine of the same transform size.
func (e *BlockEngine) LoadTransfer(dst *Transfer, ir []float64) error {
	if len(ir) != e.filterLen {
		return fmt.Errorf("%w: expected filter of %d taps, got %d", ErrLengthMismatch, e.filterLen, len(ir))
	}

	if len(dst.bins) != e.fftSize {
		dst.bins = make([]complex128, e.fftSize)
	}

	for i := range dst.bins {
		dst.bins[i] = 0
	}
	for i, v := range ir {
		dst.bins[i] = complex(v, 0)
	}

	if err := e.plan.Forward(dst.bins, dst.bins); err != nil {
		return fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return nil
}

// Load forms the window tail ++ chunk and transforms it. tail must hold
// exactly M-1 samples; chunk may be shorter than L, in which case the
// window is zero-padded for the transform while Tail still returns the
// last M-1 real input samples.
func (e *BlockEngine) Load(tail, chunk []float64) error {
	if len(tail) != e.filterLen-1 {
		return fmt.Errorf("%w: expected tail of %d samples, got %d", ErrLengthMismatch, e.filterLen-1, len(tail))
	}
	if len(chunk) > e.stepSize {
		return fmt.Errorf("%w: chunk of %d samples exceeds block of %d", ErrLengthMismatch, len(chunk), e.stepSize)
	}

	e.chunkLen = len(chunk)

	n := copy(e.window, tail)
	n += copy(e.window[n:], chunk)
	for i := n; i < e.fftSize; i++ {
		e.window[i] = 0
	}

	for i, v := range e.window {
		e.spectrum[i] = complex(v, 0)
	}

	if err := e.plan.Forward(e.spectrum, e.spectrum); err != nil {
		e.loaded = false
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	e.loaded = true
	return nil
}

// Apply filters the loaded window with h and writes the L valid output
// samples to out. The first M-1 samples of the circular result are the
// wrap-around part and are discarded.
func (e *BlockEngine) Apply(out []float64, h *Transfer) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if len(out) != e.stepSize {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, e.stepSize, len(out))
	}
	if h == nil || len(h.bins) != e.fftSize {
		return fmt.Errorf("%w: transfer function does not match transform size %d", ErrLengthMismatch, e.fftSize)
	}

	for i := range e.product {
		e.product[i] = e.spectrum[i] * h.bins[i]
	}

	if err := e.plan.Inverse(e.product, e.product); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	validStart := e.filterLen - 1
	for i := range out {
		out[i] = real(e.product[validStart+i])
	}

	return nil
}

// Tail copies the last M-1 input samples of tail ++ chunk into dst,
// excluding any zero padding. They are independent of any filter.
func (e *BlockEngine) Tail(dst []float64) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if len(dst) != e.filterLen-1 {
		return fmt.Errorf("%w: expected tail of %d samples, got %d", ErrLengthMismatch, e.filterLen-1, len(dst))
	}

	copy(dst, e.window[e.chunkLen:e.chunkLen+e.filterLen-1])
	return nil
}

// ConvolveBlock filters one chunk with h given the carried-over tail.
// out receives L samples and newTail the updated M-1 sample history.
// newTail may alias tail.
func (e *BlockEngine) ConvolveBlock(out, newTail, tail, chunk []float64, h *Transfer) error {
	if err := e.Load(tail, chunk); err != nil {
		return err
	}
	if err := e.Apply(out, h); err != nil {
		return err
	}

	return e.Tail(newTail)
}
