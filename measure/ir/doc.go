// Package ir measures head-related impulse responses.
//
// Per-ear metrics are taken relative to the response peak: the onset is
// the first sample within -20 dB of the peak, and the energy centroid
// describes how compact the response is. For an ear pair the package
// reports the interaural time difference (from the onsets) and the
// interaural level difference (from the energies).
//
// # Usage
//
//	analyzer := ir.NewAnalyzer(44100)
//	cues, err := analyzer.Interaural(left, right)
//	fmt.Printf("ITD = %.0f µs, ILD = %.1f dB\n", cues.ITD*1e6, cues.ILD)
package ir
