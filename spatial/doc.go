// Package spatial renders a mono source binaurally through HRIR pairs
// selected by direction.
//
// Three pieces cooperate:
//
//   - Steering holds the desired direction. A control goroutine (keyboard,
//     network, automation) nudges it; the lock it takes is held only for a
//     few assignments.
//   - Switcher owns the active filter pair and crossfades from the
//     previous pair over a fixed number of blocks whenever the pair
//     changes.
//   - Renderer is called once per block by the audio driver. It picks up
//     pending direction changes, pulls the next L source samples through
//     the Switcher and writes interleaved stereo.
//
// All filtering uses the overlap-save engine from dsp/conv. The input
// history tail is shared by every filter so the outgoing and incoming
// pair stay time-aligned during a fade.
//
// Renderer and Switcher are owned by the render goroutine and are not
// safe for concurrent use, except for Renderer.Stop and Renderer.Status.
// Steering is safe for concurrent use.
//
// The render goroutine never logs. Switches, buffer size violations and
// failures are posted as Events to a bounded channel; LogEvents or
// FlushEvents write them to the configured logger from another goroutine.
package spatial
