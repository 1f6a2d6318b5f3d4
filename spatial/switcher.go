package spatial

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/hrtf"
)

// DefaultFadeBlocks is the crossfade length in blocks.
const DefaultFadeBlocks = 20

// Errors returned by the renderer and the switcher.
var (
	ErrNilEngine      = errors.New("spatial: engine must not be nil")
	ErrNilRepository  = errors.New("spatial: repository must not be nil")
	ErrNilSteering    = errors.New("spatial: steering must not be nil")
	ErrFadeBlocks     = errors.New("spatial: fade length must be >= 1 block")
	ErrTransformSize  = errors.New("spatial: transform size must not be negative")
	ErrFilterMismatch = errors.New("spatial: filter length does not match engine")
)

// State is the filter-switch state.
type State int

const (
	// StateStable renders through one filter pair.
	StateStable State = iota
	// StateFading blends from the previous to the current pair.
	StateFading
)

func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateFading:
		return "fading"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// filterPair holds both ear transfer functions of one database entry.
type filterPair struct {
	index    int
	position hrtf.Position
	left     conv.Transfer
	right    conv.Transfer
}

// Switcher owns the active HRIR pair and crossfades between pairs.
//
// A switch makes the active pair the previous one, even when a fade is
// still running, and loads the new pair as current. The next fadeTotal
// blocks blend previous into current with weight
// alpha = 1 - fadeCounter/fadeTotal, after which previous is dropped.
//
// Three pair slots are allocated up front, so switching transforms the
// new filters into the free slot without allocating.
type Switcher struct {
	engine *conv.BlockEngine

	fadeTotal   int
	fadeCounter int

	slots    [3]filterPair
	current  *filterPair
	previous *filterPair

	prevLeft  []float64
	prevRight []float64
}

// NewSwitcher returns a stable switcher with entry loaded as the active
// pair.
func NewSwitcher(engine *conv.BlockEngine, fadeTotal, index int, entry hrtf.Entry) (*Switcher, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if fadeTotal < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrFadeBlocks, fadeTotal)
	}

	s := &Switcher{
		engine:    engine,
		fadeTotal: fadeTotal,
		prevLeft:  make([]float64, engine.StepSize()),
		prevRight: make([]float64, engine.StepSize()),
	}
	if err := s.load(&s.slots[0], index, entry); err != nil {
		return nil, err
	}
	s.current = &s.slots[0]

	return s, nil
}

func (s *Switcher) load(p *filterPair, index int, entry hrtf.Entry) error {
	if err := s.engine.LoadTransfer(&p.left, entry.Left); err != nil {
		return fmt.Errorf("%w: entry %d left ear: %w", ErrFilterMismatch, index, err)
	}
	if err := s.engine.LoadTransfer(&p.right, entry.Right); err != nil {
		return fmt.Errorf("%w: entry %d right ear: %w", ErrFilterMismatch, index, err)
	}
	p.index = index
	p.position = entry.Position
	return nil
}

func (s *Switcher) spare() *filterPair {
	for i := range s.slots {
		p := &s.slots[i]
		if p != s.current && p != s.previous {
			return p
		}
	}
	// Unreachable: at most two of three slots are in use.
	return nil
}

// Switch starts a fade from the active pair to entry. On error the
// switcher is left unchanged.
func (s *Switcher) Switch(index int, entry hrtf.Entry) error {
	next := s.spare()
	if err := s.load(next, index, entry); err != nil {
		return err
	}

	s.previous = s.current
	s.current = next
	s.fadeCounter = s.fadeTotal
	return nil
}

// Process renders one block. tail holds the M-1 samples of input history
// and is replaced by the updated history; chunk holds at most L new
// samples. outLeft and outRight receive L samples each.
func (s *Switcher) Process(outLeft, outRight, tail, chunk []float64) error {
	if err := s.engine.Load(tail, chunk); err != nil {
		return err
	}
	if err := s.engine.Apply(outLeft, &s.current.left); err != nil {
		return err
	}
	if err := s.engine.Apply(outRight, &s.current.right); err != nil {
		return err
	}

	if s.previous != nil {
		if err := s.engine.Apply(s.prevLeft, &s.previous.left); err != nil {
			return err
		}
		if err := s.engine.Apply(s.prevRight, &s.previous.right); err != nil {
			return err
		}

		alpha := 1 - float64(s.fadeCounter)/float64(s.fadeTotal)
		blend(outLeft, s.prevLeft, alpha)
		blend(outRight, s.prevRight, alpha)

		s.fadeCounter--
		if s.fadeCounter <= 0 {
			s.fadeCounter = 0
			s.previous = nil
		}
	}

	return s.engine.Tail(tail)
}

// blend sets cur = (1-alpha)*prev + alpha*cur.
func blend(cur, prev []float64, alpha float64) {
	beta := 1 - alpha
	for i := range cur {
		cur[i] = beta*prev[i] + alpha*cur[i]
	}
}

// State returns whether a fade is in progress.
func (s *Switcher) State() State {
	if s.previous != nil {
		return StateFading
	}
	return StateStable
}

// FadeRemaining returns the number of blocks left in the current fade.
func (s *Switcher) FadeRemaining() int {
	return s.fadeCounter
}

// FadeTotal returns the crossfade length in blocks.
func (s *Switcher) FadeTotal() int {
	return s.fadeTotal
}

// Current returns the index and position of the active pair.
func (s *Switcher) Current() (int, hrtf.Position) {
	return s.current.index, s.current.position
}

// Previous returns the pair being faded out. ok is false when stable.
func (s *Switcher) Previous() (index int, pos hrtf.Position, ok bool) {
	if s.previous == nil {
		return 0, hrtf.Position{}, false
	}
	return s.previous.index, s.previous.position, true
}
