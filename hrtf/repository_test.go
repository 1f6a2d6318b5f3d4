package hrtf

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func pair(left, right float64, n int) ([]float64, []float64) {
	l := make([]float64, n)
	r := make([]float64, n)
	l[0], r[0] = left, right
	return l, r
}

func entryAt(az, el float64, n int) Entry {
	l, r := pair(1, 1, n)
	return Entry{Position: Position{Direction: Direction{Azimuth: az, Elevation: el}, Radius: 1.2}, Left: l, Right: r}
}

func TestNewValidation(t *testing.T) {
	good := entryAt(0, 0, 4)

	tests := []struct {
		name       string
		sampleRate float64
		entries    []Entry
		want       error
	}{
		{"empty", 44100, nil, ErrEmptyDatabase},
		{"zero rate", 0, []Entry{good}, ErrSampleRate},
		{"nan rate", math.NaN(), []Entry{good}, ErrSampleRate},
		{"missing right ear", 44100, []Entry{{Left: []float64{1}}}, ErrEarCount},
		{"length differs", 44100, []Entry{good, entryAt(10, 0, 5)}, ErrFilterLength},
		{"ears differ", 44100, []Entry{{Left: []float64{1, 0}, Right: []float64{1}}}, ErrFilterLength},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sampleRate, tc.entries)
			if !errors.Is(err, tc.want) {
				t.Fatalf("New() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewEntryEarCount(t *testing.T) {
	if _, err := NewEntry(Position{}, [][]float64{{1}}); !errors.Is(err, ErrEarCount) {
		t.Fatalf("expected ErrEarCount for one channel, got %v", err)
	}
	if _, err := NewEntry(Position{}, [][]float64{{1}, {1}, {1}}); !errors.Is(err, ErrEarCount) {
		t.Fatalf("expected ErrEarCount for three channels, got %v", err)
	}

	e, err := NewEntry(Position{Radius: 1}, [][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if e.Left[1] != 2 || e.Right[0] != 3 {
		t.Fatalf("unexpected channel order: %+v", e)
	}
}

func TestNewCopiesEntries(t *testing.T) {
	src := []Entry{entryAt(0, 0, 3)}
	repo, err := New(48000, src)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	src[0].Left[0] = 99
	if repo.At(0).Left[0] != 1 {
		t.Fatalf("repository shares caller storage")
	}
	if repo.FilterLen() != 3 || repo.Len() != 1 || repo.SampleRate() != 48000 {
		t.Fatalf("unexpected accessors: len=%d M=%d fs=%v", repo.Len(), repo.FilterLen(), repo.SampleRate())
	}
}

func TestNearest(t *testing.T) {
	repo, err := New(44100, []Entry{
		entryAt(-90, 0, 1),
		entryAt(90, 0, 1),
		entryAt(0, 45, 1),
		entryAt(0, -45, 1),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		query Direction
		want  int
	}{
		{Direction{-89, 0}, 0},
		{Direction{89, 0}, 1},
		{Direction{0, 45}, 2},
		{Direction{10, -50}, 3},
		{Direction{-90, 0}, 0},
		// Azimuth is compared unwrapped: 270 is far from -90.
		{Direction{270, 0}, 1},
	}

	for _, tc := range tests {
		got, e := repo.Nearest(tc.query)
		if got != tc.want {
			t.Errorf("Nearest(%v) = %d, want %d", tc.query, got, tc.want)
		}
		if e.Position != repo.At(got).Position {
			t.Errorf("Nearest(%v) returned entry of another index", tc.query)
		}
	}
}

func TestNearestIgnoresRadius(t *testing.T) {
	near := entryAt(10, 0, 1)
	near.Position.Radius = 100
	repo, err := New(44100, []Entry{entryAt(0, 0, 1), near})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, _ := repo.Nearest(Direction{9, 0}); got != 1 {
		t.Fatalf("Nearest() = %d, want 1", got)
	}
}

func TestNearestTieBreaksToFirst(t *testing.T) {
	repo, err := New(44100, []Entry{
		entryAt(-10, 0, 1),
		entryAt(10, 0, 1),
		entryAt(-10, 0, 1),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for range 5 {
		if got, _ := repo.Nearest(Direction{0, 0}); got != 0 {
			t.Fatalf("Nearest() = %d, want first of the tied entries", got)
		}
	}
	if got, _ := repo.Nearest(Direction{-10, 0}); got != 0 {
		t.Fatalf("exact duplicate match = %d, want 0", got)
	}
}

func TestNearestDistance(t *testing.T) {
	repo, err := New(44100, []Entry{entryAt(0, 0, 1), entryAt(30, 40, 1)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	idx, dist := repo.NearestDistance(Direction{33, 44})
	if idx != 1 || math.Abs(dist-5) > 1e-12 {
		t.Fatalf("NearestDistance() = %d, %v; want 1, 5", idx, dist)
	}
}

func TestNearestConcurrent(t *testing.T) {
	entries := make([]Entry, 0, 72)
	for az := -180.0; az < 180; az += 5 {
		entries = append(entries, entryAt(az, 0, 2))
	}
	repo, err := New(44100, entries)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want, _ := repo.Nearest(Direction{42, 3})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got, _ := repo.Nearest(Direction{42, 3}); got != want {
					t.Errorf("Nearest() = %d, want %d", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPositions(t *testing.T) {
	repo, err := New(44100, []Entry{entryAt(1, 2, 1), entryAt(3, 4, 1)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pos := repo.Positions()
	if len(pos) != 2 || pos[1].Azimuth != 3 || pos[1].Elevation != 4 {
		t.Fatalf("Positions() = %+v", pos)
	}
}
