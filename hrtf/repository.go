package hrtf

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned when building a repository.
var (
	ErrEmptyDatabase = errors.New("hrtf: database has no entries")
	ErrFilterLength  = errors.New("hrtf: inconsistent impulse response length")
	ErrEarCount      = errors.New("hrtf: entry must carry exactly two impulse responses")
	ErrSampleRate    = errors.New("hrtf: sample rate must be > 0 and finite")
)

// Ears is the number of impulse responses per entry.
const Ears = 2

// Entry is one measured direction with its left and right ear impulse
// responses.
type Entry struct {
	Position Position
	Left     []float64
	Right    []float64
}

// NewEntry builds an entry from per-channel impulse responses, as a
// database reader sees them. irs must hold exactly a left and a right
// response.
func NewEntry(pos Position, irs [][]float64) (Entry, error) {
	if len(irs) != Ears {
		return Entry{}, fmt.Errorf("%w: got %d", ErrEarCount, len(irs))
	}

	return Entry{Position: pos, Left: irs[0], Right: irs[1]}, nil
}

// Repository is an immutable, ordered set of HRIR entries sharing one
// sampling rate and one filter length.
type Repository struct {
	sampleRate float64
	filterLen  int
	entries    []Entry
}

// New validates entries and returns a repository owning copies of them.
func New(sampleRate float64, entries []Entry) (*Repository, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrSampleRate, sampleRate)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyDatabase
	}

	filterLen := len(entries[0].Left)
	owned := make([]Entry, len(entries))

	for i, e := range entries {
		if len(e.Left) == 0 || len(e.Right) == 0 {
			return nil, fmt.Errorf("%w: entry %d is missing an ear", ErrEarCount, i)
		}
		if len(e.Left) != filterLen || len(e.Right) != filterLen {
			return nil, fmt.Errorf("%w: entry %d has %d/%d taps, database uses %d",
				ErrFilterLength, i, len(e.Left), len(e.Right), filterLen)
		}

		owned[i] = Entry{
			Position: e.Position,
			Left:     append([]float64(nil), e.Left...),
			Right:    append([]float64(nil), e.Right...),
		}
	}

	return &Repository{
		sampleRate: sampleRate,
		filterLen:  filterLen,
		entries:    owned,
	}, nil
}

// Len returns the number of entries.
func (r *Repository) Len() int {
	return len(r.entries)
}

// FilterLen returns the database-wide impulse response length M.
func (r *Repository) FilterLen() int {
	return r.filterLen
}

// SampleRate returns the sampling rate of all impulse responses in Hz.
func (r *Repository) SampleRate() float64 {
	return r.sampleRate
}

// At returns entry i. The impulse response slices are shared with the
// repository and must not be modified.
func (r *Repository) At(i int) Entry {
	return r.entries[i]
}

// Positions returns the measurement positions in storage order.
func (r *Repository) Positions() []Position {
	out := make([]Position, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Position
	}
	return out
}

// Nearest returns the index and entry closest to d. Ties go to the entry
// stored first.
func (r *Repository) Nearest(d Direction) (int, Entry) {
	idx, _ := r.nearest(d)
	return idx, r.entries[idx]
}

// NearestDistance returns the index closest to d and its distance in
// degrees.
func (r *Repository) NearestDistance(d Direction) (int, float64) {
	idx, d2 := r.nearest(d)
	return idx, math.Sqrt(d2)
}

func (r *Repository) nearest(d Direction) (int, float64) {
	best := 0
	bestDist := math.Inf(1)

	for i := range r.entries {
		dist := d.distance2(r.entries[i].Position.Direction)
		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}

	return best, bestDist
}
