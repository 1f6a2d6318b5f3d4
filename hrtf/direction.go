package hrtf

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Elevation limits in degrees.
const (
	MinElevation = -90.0
	MaxElevation = 90.0
)

// Direction is a source direction relative to the listener, in degrees.
// Azimuth is unbounded and never normalized.
type Direction struct {
	Azimuth   float64
	Elevation float64
}

// Clamped returns d with elevation limited to [-90, 90].
func (d Direction) Clamped() Direction {
	d.Elevation = core.Clamp(d.Elevation, MinElevation, MaxElevation)
	return d
}

// Add returns d shifted by the given deltas, elevation clamped.
func (d Direction) Add(dAzimuth, dElevation float64) Direction {
	return Direction{
		Azimuth:   d.Azimuth + dAzimuth,
		Elevation: d.Elevation + dElevation,
	}.Clamped()
}

func (d Direction) String() string {
	return fmt.Sprintf("az=%.1f el=%.1f", d.Azimuth, d.Elevation)
}

// distance2 is the squared (azimuth, elevation) distance.
func (d Direction) distance2(o Direction) float64 {
	da := d.Azimuth - o.Azimuth
	de := d.Elevation - o.Elevation
	return da*da + de*de
}

// Position is a measurement position: a direction plus a radius in metres.
type Position struct {
	Direction
	Radius float64
}

func (p Position) String() string {
	return fmt.Sprintf("%s r=%.2f", p.Direction, p.Radius)
}
