package spatial

import (
	"sync"

	"github.com/cwbudde/algo-binaural/hrtf"
)

// DefaultStep is the direction change per key press in degrees.
const DefaultStep = 10.0

// Move is a discrete direction step.
type Move int

const (
	MoveLeft Move = iota
	MoveRight
	MoveUp
	MoveDown
)

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	default:
		return "unknown"
	}
}

// Steering is the direction shared between a control goroutine and the
// renderer. Every update clamps elevation, leaves azimuth untouched and
// marks the direction pending until the renderer takes it.
type Steering struct {
	mu      sync.Mutex
	desired hrtf.Direction
	pending bool
	step    float64
}

// NewSteering returns a steering bridge starting at initial. The initial
// direction is pending so the first rendered block announces it. A step
// <= 0 selects DefaultStep.
func NewSteering(initial hrtf.Direction, step float64) *Steering {
	if step <= 0 {
		step = DefaultStep
	}

	return &Steering{
		desired: initial.Clamped(),
		pending: true,
		step:    step,
	}
}

// StepSize returns the degrees applied by Step.
func (s *Steering) StepSize() float64 {
	return s.step
}

// Nudge shifts the desired direction by the given deltas in degrees.
func (s *Steering) Nudge(dAzimuth, dElevation float64) {
	s.mu.Lock()
	s.desired = s.desired.Add(dAzimuth, dElevation)
	s.pending = true
	s.mu.Unlock()
}

// Step moves one step in the given direction. Left decreases azimuth and
// up increases elevation.
func (s *Steering) Step(m Move) {
	switch m {
	case MoveLeft:
		s.Nudge(-s.step, 0)
	case MoveRight:
		s.Nudge(s.step, 0)
	case MoveUp:
		s.Nudge(0, s.step)
	case MoveDown:
		s.Nudge(0, -s.step)
	}
}

// Reset returns to straight ahead (0, 0).
func (s *Steering) Reset() {
	s.Set(hrtf.Direction{})
}

// Set replaces the desired direction.
func (s *Steering) Set(d hrtf.Direction) {
	d = d.Clamped()

	s.mu.Lock()
	s.desired = d
	s.pending = true
	s.mu.Unlock()
}

// Desired returns the current desired direction without consuming it.
func (s *Steering) Desired() hrtf.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desired
}

// Pending reports whether an update has not yet been taken.
func (s *Steering) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// take snapshots the direction and clears the pending flag. ok is false
// when nothing changed since the last take.
func (s *Steering) take() (d hrtf.Direction, ok bool) {
	s.mu.Lock()
	d, ok = s.desired, s.pending
	s.pending = false
	s.mu.Unlock()
	return d, ok
}
