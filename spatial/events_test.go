package spatial

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func TestRendererStartsStable(t *testing.T) {
	steering := NewSteering(hrtf.Direction{Azimuth: 70}, 0)
	x := testutil.DeterministicNoise(3, 0.5, 100)
	r := newTestRenderer(t, twoGainRepo(t), x, steering, WithTransformSize(8), WithFadeBlocks(4))

	if steering.Pending() {
		t.Fatal("initial direction still pending after NewRenderer")
	}

	out := make([]float32, 2*r.BlockSize())
	r.Render(out)

	st := r.Status()
	if st.State != StateStable || st.FadeRemaining != 0 || st.Index != 1 {
		t.Fatalf("status after first block = %+v, want index 1 stable", st)
	}

	left, right := testutil.Deinterleave(out)
	want := make([]float64, r.BlockSize())
	for i := range want {
		want[i] = 0.5 * x[i]
	}
	testutil.RequireSliceNearlyEqual(t, left, want, 1e-6)
	testutil.RequireSliceNearlyEqual(t, right, want, 1e-6)

	select {
	case ev := <-r.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestRendererPostsInsteadOfLogging(t *testing.T) {
	var logs bytes.Buffer
	steering := NewSteering(hrtf.Direction{Azimuth: -90}, 0)
	r := newTestRenderer(t, twoGainRepo(t), testutil.Ramp(100), steering,
		WithTransformSize(8),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	logs.Reset()

	out := make([]float32, 2*r.BlockSize())
	steering.Set(hrtf.Direction{Azimuth: 90})
	r.Render(out)
	r.Render(make([]float32, 3))

	if logs.Len() != 0 {
		t.Fatalf("render path wrote to the logger:\n%s", logs.String())
	}

	ev := <-r.Events()
	if ev.Kind != EventSwitch || ev.Index != 1 || ev.Requested.Azimuth != 90 || ev.Block != 0 {
		t.Fatalf("first event = %+v", ev)
	}
	ev = <-r.Events()
	if ev.Kind != EventViolation || ev.Got != 3 || ev.Want != 16 || ev.Count != 1 || ev.Block != 1 {
		t.Fatalf("second event = %+v", ev)
	}
}

func TestRendererDropsEventsWhenFull(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRenderer(t, identityRepo(t), testutil.Ramp(10), NewSteering(hrtf.Direction{}, 0),
		WithTransformSize(8),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	for range eventBuffer + 5 {
		r.post(Event{Kind: EventError, Err: errors.New("boom")})
	}
	if len(r.Events()) != eventBuffer {
		t.Fatalf("buffered %d events, want %d", len(r.Events()), eventBuffer)
	}

	r.FlushEvents()
	if n := strings.Count(logs.String(), "render failure"); n != eventBuffer {
		t.Fatalf("logged %d failures, want %d", n, eventBuffer)
	}
	if !strings.Contains(logs.String(), "render events dropped") || !strings.Contains(logs.String(), "count=5") {
		t.Fatalf("dropped events not reported:\n%s", logs.String())
	}
}

func TestRendererLogEvents(t *testing.T) {
	var logs bytes.Buffer
	steering := NewSteering(hrtf.Direction{Azimuth: -90}, 0)
	r := newTestRenderer(t, twoGainRepo(t), testutil.Ramp(100), steering,
		WithTransformSize(8),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	steering.Set(hrtf.Direction{Azimuth: 90})
	r.Render(make([]float32, 2*r.BlockSize()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		r.LogEvents(ctx)
		close(done)
	}()
	<-done

	if !strings.Contains(logs.String(), "filter switch") {
		t.Fatalf("switch not logged:\n%s", logs.String())
	}
}
