package spatial

import (
	"context"
	"log/slog"

	"github.com/cwbudde/algo-binaural/hrtf"
)

// eventBuffer is the number of events held for the logging goroutine.
// Further events are counted and dropped.
const eventBuffer = 64

// EventKind tells what an Event reports.
type EventKind int

const (
	// EventSwitch is a filter change requested by the steering.
	EventSwitch EventKind = iota
	// EventViolation is a render call with a wrong buffer size. Only the
	// 1st, 2nd, 4th, 8th, ... violation is posted.
	EventViolation
	// EventError is a failed switch or block convolution.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventSwitch:
		return "switch"
	case EventViolation:
		return "violation"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is posted by the render goroutine without blocking or
// allocating, and formatted elsewhere.
type Event struct {
	Kind  EventKind
	Block int64

	// EventSwitch
	Requested hrtf.Direction
	Index     int
	Position  hrtf.Position
	Distance  float64

	// EventViolation
	Got, Want int
	Count     int64

	// EventError
	Err error
}

// post hands ev to the event channel, dropping it when the channel is
// full.
func (r *Renderer) post(ev Event) {
	ev.Block = r.blocks.Load()
	select {
	case r.events <- ev:
	default:
		r.dropped.Add(1)
	}
}

// Events returns the channel the render goroutine posts to. Use either
// Events or LogEvents, not both.
func (r *Renderer) Events() <-chan Event {
	return r.events
}

// LogEvents writes posted events to the renderer's logger until ctx is
// done, then flushes what is still buffered. Run it on its own goroutine
// so file or terminal I/O stays off the render path.
func (r *Renderer) LogEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.FlushEvents()
			return
		case ev := <-r.events:
			r.logEvent(ev)
		}
	}
}

// FlushEvents logs every buffered event without waiting for more.
func (r *Renderer) FlushEvents() {
	for {
		select {
		case ev := <-r.events:
			r.logEvent(ev)
		default:
			if n := r.dropped.Swap(0); n > 0 {
				r.logger.Warn("render events dropped", "count", n)
			}
			return
		}
	}
}

func (r *Renderer) logEvent(ev Event) {
	switch ev.Kind {
	case EventSwitch:
		r.logger.Info("filter switch",
			"block", ev.Block,
			"requested", ev.Requested.String(),
			"index", ev.Index,
			"position", ev.Position.String(),
			"distance", ev.Distance,
		)
	case EventViolation:
		r.logger.Warn("render buffer size mismatch, emitting silence",
			"block", ev.Block, "got", ev.Got, "want", ev.Want, "count", ev.Count)
	case EventError:
		r.logger.Log(context.Background(), slog.LevelError, "render failure",
			"block", ev.Block, "index", ev.Index, "error", ev.Err)
	}
}
