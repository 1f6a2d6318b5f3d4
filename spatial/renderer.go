package spatial

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/hrtf"
)

// Status is a snapshot of the renderer for display.
type Status struct {
	Blocks        int64
	Violations    int64
	State         State
	Index         int
	Position      hrtf.Position
	FadeRemaining int
	Done          bool

	// PeakDB and RMSDB are the last block's levels in dBFS, averaged over
	// both ears per frame.
	PeakDB float64
	RMSDB  float64
}

// Renderer pulls a mono source through direction-dependent HRIR pairs,
// one block of L samples per call.
type Renderer struct {
	repo     *hrtf.Repository
	steering *Steering
	engine   *conv.BlockEngine
	switcher *Switcher

	source []float64
	cursor int
	ended  bool

	tail  []float64
	left  []float64
	right []float64
	power []float64

	logger      *slog.Logger
	onViolation ViolationHandler

	events  chan Event
	dropped atomic.Int64

	stopped atomic.Bool

	// Published for Status; written only by the render goroutine.
	blocks     atomic.Int64
	violations atomic.Int64
	state      atomic.Int32
	index      atomic.Int64
	fadeLeft   atomic.Int64
	done       atomic.Bool
	peakBits   atomic.Uint64
	rmsBits    atomic.Uint64
}

// NewRenderer builds a renderer for source, which must already be at the
// repository's sample rate. It takes the steering's current direction,
// so the nearest filter pair is active and stable from the first block.
func NewRenderer(repo *hrtf.Repository, source []float64, steering *Steering, opts ...Option) (*Renderer, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}
	if steering == nil {
		return nil, ErrNilSteering
	}

	cfg := defaultRendererConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := conv.NewBlockEngine(repo.FilterLen(), cfg.transformSize)
	if err != nil {
		return nil, fmt.Errorf("spatial: %w", err)
	}

	initial, _ := steering.take()
	idx, dist := repo.NearestDistance(initial)
	entry := repo.At(idx)
	switcher, err := NewSwitcher(engine, cfg.fadeBlocks, idx, entry)
	if err != nil {
		return nil, err
	}

	l := engine.StepSize()
	r := &Renderer{
		repo:        repo,
		steering:    steering,
		engine:      engine,
		switcher:    switcher,
		source:      source,
		tail:        make([]float64, engine.TailLen()),
		left:        make([]float64, l),
		right:       make([]float64, l),
		power:       make([]float64, l),
		logger:      cfg.logger,
		onViolation: cfg.onViolation,
		events:      make(chan Event, eventBuffer),
	}
	r.index.Store(int64(idx))
	r.storeLevels(math.Inf(-1), math.Inf(-1))

	cfg.logger.Info("initial filter",
		"requested", initial.String(),
		"index", idx,
		"position", entry.Position.String(),
		"distance", dist,
	)

	return r, nil
}

// BlockSize returns L, the number of frames per render call.
func (r *Renderer) BlockSize() int {
	return r.engine.StepSize()
}

// TransformSize returns the FFT size N.
func (r *Renderer) TransformSize() int {
	return r.engine.TransformSize()
}

// FadeBlocks returns the crossfade length in blocks.
func (r *Renderer) FadeBlocks() int {
	return r.switcher.FadeTotal()
}

// Latency returns the duration of one block in seconds.
func (r *Renderer) Latency() float64 {
	return float64(r.BlockSize()) / r.repo.SampleRate()
}

// Render fills out with one block of interleaved stereo frames and
// reports whether the session is finished. out must hold exactly
// 2*BlockSize samples; any other length yields silence for the call.
func (r *Renderer) Render(out []float32) bool {
	if len(out) != 2*r.BlockSize() {
		core.Zero32(out)
		r.violation(len(out), 2*r.BlockSize())
		return r.finished()
	}

	done := r.RenderBlock(r.left, r.right)
	core.Interleave(out, r.left, r.right)
	return done
}

// RenderBlock is Render for separate left and right buffers of
// BlockSize samples each.
func (r *Renderer) RenderBlock(left, right []float64) bool {
	l := r.BlockSize()
	if len(left) != l || len(right) != l {
		core.Zero(left)
		core.Zero(right)
		r.violation(min(len(left), len(right)), l)
		return r.finished()
	}

	if r.finished() {
		core.Zero(left)
		core.Zero(right)
		r.done.Store(true)
		return true
	}

	r.poll()

	end := min(r.cursor+l, len(r.source))
	chunk := r.source[r.cursor:end]
	r.cursor = end

	if err := r.switcher.Process(left, right, r.tail, chunk); err != nil {
		// Only reachable on an internal size mismatch.
		core.Zero(left)
		core.Zero(right)
		r.post(Event{Kind: EventError, Index: -1, Err: err})
	}

	if r.cursor >= len(r.source) {
		r.ended = true
	}

	r.publish(left, right)
	return r.ended
}

// poll applies a pending direction change.
func (r *Renderer) poll() {
	d, ok := r.steering.take()
	if !ok {
		return
	}

	idx, dist := r.repo.NearestDistance(d)
	entry := r.repo.At(idx)
	if err := r.switcher.Switch(idx, entry); err != nil {
		r.post(Event{Kind: EventError, Index: idx, Err: err})
		return
	}

	r.post(Event{
		Kind:      EventSwitch,
		Requested: d,
		Index:     idx,
		Position:  entry.Position,
		Distance:  dist,
	})
}

// Stop ends the session. The next Render call emits silence and reports
// done. Safe to call from any goroutine.
func (r *Renderer) Stop() {
	r.stopped.Store(true)
}

// Done reports whether the source is exhausted or the renderer stopped.
func (r *Renderer) Done() bool {
	return r.done.Load()
}

func (r *Renderer) finished() bool {
	return r.ended || r.stopped.Load()
}

func (r *Renderer) violation(got, want int) {
	n := r.violations.Add(1)
	if r.onViolation != nil {
		r.onViolation(got, want)
	}
	// Report the 1st, 2nd, 4th, 8th, ... occurrence.
	if n&(n-1) == 0 {
		r.post(Event{Kind: EventViolation, Got: got, Want: want, Count: n})
	}
}

func (r *Renderer) publish(left, right []float64) {
	vecmath.Power(r.power, left, right)

	var peak, sum float64
	for _, p := range r.power {
		peak = max(peak, p)
		sum += p
	}
	n := float64(len(r.power))
	r.storeLevels(
		core.LinearPowerToDB(peak/2),
		core.LinearPowerToDB(sum/(2*n)),
	)

	r.blocks.Add(1)
	r.state.Store(int32(r.switcher.State()))
	idx, _ := r.switcher.Current()
	r.index.Store(int64(idx))
	r.fadeLeft.Store(int64(r.switcher.FadeRemaining()))
	r.done.Store(r.ended)
}

func (r *Renderer) storeLevels(peakDB, rmsDB float64) {
	r.peakBits.Store(math.Float64bits(peakDB))
	r.rmsBits.Store(math.Float64bits(rmsDB))
}

// Status returns the latest published state. Safe to call from any
// goroutine; fields may come from adjacent blocks.
func (r *Renderer) Status() Status {
	idx := int(r.index.Load())
	return Status{
		Blocks:        r.blocks.Load(),
		Violations:    r.violations.Load(),
		State:         State(r.state.Load()),
		Index:         idx,
		Position:      r.repo.At(idx).Position,
		FadeRemaining: int(r.fadeLeft.Load()),
		Done:          r.done.Load() || r.stopped.Load(),
		PeakDB:        math.Float64frombits(r.peakBits.Load()),
		RMSDB:         math.Float64frombits(r.rmsBits.Load()),
	}
}

// Steering returns the direction bridge the renderer follows.
func (r *Renderer) Steering() *Steering {
	return r.steering
}
