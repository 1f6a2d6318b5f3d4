// Package hrtf holds a directional database of head-related impulse
// responses and answers nearest-direction queries against it.
//
// A [Repository] is built once from a slice of [Entry] values, validated
// at construction (every entry carries a left and a right impulse response
// of the same database-wide length M) and never modified afterwards, so it
// may be queried from any number of goroutines without locking.
//
// Directions are plain (azimuth, elevation) pairs in degrees. Nearest uses
// the squared Euclidean distance over those two coordinates only; the
// measurement radius is ignored, and azimuth is compared as given, without
// wrapping.
package hrtf
