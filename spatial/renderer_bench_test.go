package spatial

import (
	"testing"

	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func benchmarkRender(b *testing.B, filterLen, transformSize int, fading bool) {
	entries := make([]hrtf.Entry, 0, 72)
	for i := range 72 {
		az := float64(i*5 - 180)
		entries = append(entries, hrtf.Entry{
			Position: hrtf.Position{Direction: hrtf.Direction{Azimuth: az}, Radius: 1.2},
			Left:     testutil.DecayingIR(int64(2*i), filterLen),
			Right:    testutil.DecayingIR(int64(2*i+1), filterLen),
		})
	}
	repo, err := hrtf.New(44100, entries)
	if err != nil {
		b.Fatal(err)
	}

	steering := NewSteering(hrtf.Direction{}, 5)
	r, err := NewRenderer(repo, testutil.DeterministicNoise(1, 0.5, 1<<20), steering,
		WithTransformSize(transformSize), WithFadeBlocks(1<<30))
	if err != nil {
		b.Fatal(err)
	}

	out := make([]float32, 2*r.BlockSize())
	r.Render(out)

	b.SetBytes(int64(r.BlockSize() * 8))
	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		if !fading {
			r.switcher.previous = nil
		}
		if r.Render(out) {
			b.StopTimer()
			r.cursor = 0
			r.ended = false
			b.StartTimer()
		}
	}
}

func BenchmarkRenderStable512(b *testing.B) { benchmarkRender(b, 512, 4096, false) }
func BenchmarkRenderFading512(b *testing.B) { benchmarkRender(b, 512, 4096, true) }
func BenchmarkRenderStable200(b *testing.B) { benchmarkRender(b, 200, 1024, false) }
func BenchmarkRenderFading200(b *testing.B) { benchmarkRender(b, 200, 1024, true) }
