package player

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// pollInterval is how often Wait checks whether playback has finished.
const pollInterval = 50 * time.Millisecond

// Player plays a BlockRenderer on the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream
}

// New opens the output device at sampleRate and prepares r for playback.
// The device buffer is sized to a few blocks so direction changes stay
// audible quickly. Only one Player may exist per process.
func New(sampleRate int, r BlockRenderer) (*Player, error) {
	blockDur := time.Duration(float64(r.BlockSize()) / float64(sampleRate) * float64(time.Second))

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   2 * blockDur,
	})
	if err != nil {
		return nil, fmt.Errorf("player: opening output device: %w", err)
	}
	<-ready

	stream := NewStream(r)
	p := ctx.NewPlayer(stream)
	p.SetBufferSize(2 * r.BlockSize() * bytesPerFrame)

	return &Player{ctx: ctx, player: p, stream: stream}, nil
}

// Start begins playback without blocking.
func (p *Player) Start() {
	p.player.Play()
}

// Wait blocks until the stream is exhausted and played out, or ctx ends.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for p.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return p.player.Err()
}

// Blocks returns the number of blocks pulled by the device.
func (p *Player) Blocks() int64 {
	return p.stream.Blocks()
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}
