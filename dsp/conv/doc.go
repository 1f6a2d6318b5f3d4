// Package conv provides streaming FFT block convolution for real-time
// filtering with swappable filters.
//
// The central type is [BlockEngine], an overlap-save engine for one
// filter length M and transform size N. Each call consumes up to
// L = N - M + 1 new input samples together with the previous M-1 input
// samples (the tail) and yields L output samples:
//
//	engine, err := conv.NewBlockEngine(len(ir), 4096)
//	h, err := engine.NewTransfer(ir)      // once per filter
//	tail := make([]float64, engine.TailLen())
//	out := make([]float64, engine.StepSize())
//	err = engine.ConvolveBlock(out, tail, tail, chunk, h)
//
// Because the engine keeps no history of its own, several filters can be
// driven from one tail and stay sample-aligned, which is what a crossfade
// between two filters needs. Concatenating the outputs of successive calls
// reproduces the linear convolution of the whole input, independent of
// where block boundaries fall.
//
// [Direct] is the O(N*M) time-domain reference.
package conv
