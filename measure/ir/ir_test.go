package ir

import (
	"errors"
	"math"
	"testing"
)

func TestAnalyzeImpulse(t *testing.T) {
	ir := make([]float64, 32)
	ir[5] = -2

	m, err := NewAnalyzer(1000).Analyze(ir)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if m.PeakIndex != 5 || m.Onset != 5 || m.Peak != 2 {
		t.Fatalf("metrics = %+v", m)
	}
	if m.Energy != 4 {
		t.Fatalf("Energy = %v, want 4", m.Energy)
	}
	if math.Abs(m.EnergyDB-10*math.Log10(4)) > 1e-12 {
		t.Fatalf("EnergyDB = %v", m.EnergyDB)
	}
	if math.Abs(m.CenterTime-0.005) > 1e-12 {
		t.Fatalf("CenterTime = %v, want 5 ms", m.CenterTime)
	}
}

func TestOnsetPrecedesPeak(t *testing.T) {
	// Slow rise: onset is the first sample at -20 dB, before the peak.
	ir := []float64{0, 0.01, 0.05, 0.2, 0.6, 1, 0.5, 0.25}

	m, err := NewAnalyzer(48000).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}
	if m.PeakIndex != 5 {
		t.Fatalf("PeakIndex = %d, want 5", m.PeakIndex)
	}
	if m.Onset != 3 {
		t.Fatalf("Onset = %d, want 3", m.Onset)
	}

	start, err := NewAnalyzer(48000).FindImpulseStart(ir)
	if err != nil || start != 3 {
		t.Fatalf("FindImpulseStart = %d, %v", start, err)
	}
}

func TestInterauralSign(t *testing.T) {
	a := NewAnalyzer(48000)

	early := make([]float64, 64)
	late := make([]float64, 64)
	early[2] = 1
	late[26] = 0.25

	// Left leads: source on the left.
	cues, err := a.Interaural(early, late)
	if err != nil {
		t.Fatal(err)
	}
	if cues.ITD != 24.0/48000 {
		t.Fatalf("ITD = %v, want %v", cues.ITD, 24.0/48000)
	}
	if math.Abs(cues.ILD-20*math.Log10(0.25)) > 1e-9 {
		t.Fatalf("ILD = %v", cues.ILD)
	}

	mirrored, err := a.Interaural(late, early)
	if err != nil {
		t.Fatal(err)
	}
	if mirrored.ITD != -cues.ITD || math.Abs(mirrored.ILD+cues.ILD) > 1e-12 {
		t.Fatalf("mirrored cues = %+v, want negated %+v", mirrored, cues)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		fs   float64
		ir   []float64
		want error
	}{
		{"empty", 48000, nil, ErrEmptyIR},
		{"silent", 48000, make([]float64, 8), ErrSilentIR},
		{"rate", 0, []float64{1}, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnalyzer(tt.fs).Analyze(tt.ir); !errors.Is(err, tt.want) {
				t.Fatalf("Analyze() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := NewAnalyzer(48000).Interaural([]float64{1}, nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("Interaural() error = %v", err)
	}
	if _, err := NewAnalyzer(48000).FindImpulseStart(make([]float64, 4)); !errors.Is(err, ErrSilentIR) {
		t.Fatalf("FindImpulseStart() error = %v", err)
	}
}
