package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/internal/testutil"
	"github.com/cwbudde/algo-binaural/measure/ir"
)

func onset(ir []float64) int {
	for i, v := range ir {
		if v != 0 {
			return i
		}
	}
	return -1
}

func energy(ir []float64) float64 {
	var e float64
	for _, v := range ir {
		e += v * v
	}
	return e
}

func TestGenerateGrid(t *testing.T) {
	repo, err := Generate(WithGrid(90, 45), WithMinElevation(-45), WithLength(64))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Elevations -45, 0, 45 with 4 azimuths each, plus the zenith.
	if repo.Len() != 13 {
		t.Fatalf("Len() = %d, want 13", repo.Len())
	}
	if repo.FilterLen() != 64 || repo.SampleRate() != DefaultSampleRate {
		t.Fatalf("M=%d fs=%v", repo.FilterLen(), repo.SampleRate())
	}

	last := repo.At(repo.Len() - 1).Position
	if last.Elevation != 90 || last.Azimuth != 0 || last.Radius != DefaultRadius {
		t.Fatalf("zenith entry = %v", last)
	}

	idx, _ := repo.Nearest(hrtf.Direction{Azimuth: 85, Elevation: 3})
	if got := repo.At(idx).Position.Direction; got != (hrtf.Direction{Azimuth: 90}) {
		t.Fatalf("Nearest() = %v", got)
	}
}

func TestPairInterauralCues(t *testing.T) {
	left, right, err := Pair(hrtf.Direction{Azimuth: 90})
	if err != nil {
		t.Fatal(err)
	}

	// Source on the right: left ear later and quieter.
	wantITD := int(math.Round(DefaultHeadRadius / SpeedOfSound * (math.Pi/2 + 1) * DefaultSampleRate))
	if got := onset(left) - onset(right); got != wantITD {
		t.Fatalf("ITD = %d samples, want %d", got, wantITD)
	}
	if energy(left) >= energy(right) {
		t.Fatalf("far ear energy %v >= near ear %v", energy(left), energy(right))
	}

	mirrorL, mirrorR, err := Pair(hrtf.Direction{Azimuth: -90})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, mirrorL, right, 0)
	testutil.RequireSliceNearlyEqual(t, mirrorR, left, 0)
}

func TestPairRightSourceLeadsRightEar(t *testing.T) {
	analyzer := ir.NewAnalyzer(DefaultSampleRate)

	for _, az := range []float64{30, 90, 150} {
		left, right, err := Pair(hrtf.Direction{Azimuth: az})
		if err != nil {
			t.Fatal(err)
		}

		cues, err := analyzer.Interaural(left, right)
		if err != nil {
			t.Fatalf("az=%v: Interaural() error = %v", az, err)
		}
		if cues.ITD >= 0 {
			t.Fatalf("az=%v: ITD = %v s, want right ear leading", az, cues.ITD)
		}
		if cues.ILD <= 0 {
			t.Fatalf("az=%v: ILD = %v dB, want right ear louder", az, cues.ILD)
		}
	}
}

func TestPairFrontIsSymmetric(t *testing.T) {
	for _, d := range []hrtf.Direction{{}, {Azimuth: 180}, {Elevation: 90}, {Azimuth: 30, Elevation: 90}} {
		left, right, err := Pair(d)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, left, right, 1e-12)
		if onset(left) != onsetDelay {
			t.Fatalf("%v: onset = %d, want %d", d, onset(left), onsetDelay)
		}
	}
}

func TestPairTaperEndsNearZero(t *testing.T) {
	left, right, err := Pair(hrtf.Direction{Azimuth: 60}, WithLength(32))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireFinite(t, left)
	testutil.RequireFinite(t, right)
	if math.Abs(left[31]) > 0.05 || math.Abs(right[31]) > 0.05 {
		t.Fatalf("tail not tapered: %v %v", left[31], right[31])
	}
}

func TestPairShortResponseDropsLateImpulse(t *testing.T) {
	left, _, err := Pair(hrtf.Direction{Azimuth: 90}, WithLength(6))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSilent(t, left)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"sample rate", WithSampleRate(0)},
		{"length", WithLength(0)},
		{"head radius", WithHeadRadius(-1)},
		{"radius", WithRadius(math.Inf(1))},
		{"azimuth step", WithGrid(0, 10)},
		{"elevation step", WithGrid(10, math.NaN())},
		{"min elevation", WithMinElevation(-100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Generate(tc.opt); !errors.Is(err, ErrInvalidOption) {
				t.Fatalf("Generate() error = %v, want ErrInvalidOption", err)
			}
		})
	}
}
