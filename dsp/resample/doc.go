// Package resample converts audio between sampling rates with a rational
// polyphase FIR resampler.
//
// Sources are brought to the HRIR database rate before rendering, so the
// main entry point is Convert, which handles a whole signal and removes
// the filter's group delay. Resampler keeps state across Process calls
// for streaming use.
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
