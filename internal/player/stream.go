// Package player drives a block renderer from a pull-based audio output.
package player

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

// BlockRenderer produces fixed-size blocks of interleaved stereo float32
// frames. Render reports true once the final block has been written.
type BlockRenderer interface {
	BlockSize() int
	Render(out []float32) bool
}

// bytesPerFrame is two float32 channels.
const bytesPerFrame = 2 * 4

// Stream adapts a BlockRenderer to io.Reader as float32 little-endian
// stereo. Output devices ask for arbitrary byte counts; Stream renders
// whole blocks and serves them across reads, so the renderer always sees
// its own block size. Read returns io.EOF after the final block is
// drained.
type Stream struct {
	r     BlockRenderer
	block []float32
	buf   []byte
	pos   int
	done  bool

	blocks atomic.Int64
}

// NewStream returns a stream over r.
func NewStream(r BlockRenderer) *Stream {
	l := r.BlockSize()
	return &Stream{
		r:     r,
		block: make([]float32, 2*l),
		buf:   make([]byte, l*bytesPerFrame),
		pos:   l * bytesPerFrame,
	}
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.pos == len(s.buf) {
			if s.done {
				break
			}
			s.fill()
		}

		c := copy(p[n:], s.buf[s.pos:])
		n += c
		s.pos += c
	}

	if n == 0 && s.done && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *Stream) fill() {
	s.done = s.r.Render(s.block)
	s.blocks.Add(1)

	for i, v := range s.block {
		binary.LittleEndian.PutUint32(s.buf[4*i:], math.Float32bits(v))
	}
	s.pos = 0
}

// Blocks returns the number of blocks rendered so far. Safe to call
// while another goroutine reads.
func (s *Stream) Blocks() int64 {
	return s.blocks.Load()
}
