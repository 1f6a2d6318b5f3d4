package hrdb

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-binaural/hrtf"
)

const (
	headerSize      = 4 + 2 + 4 + 8 + 4 + 8
	chunkHeaderSize = 4 + 8
	subHeaderSize   = 4 + 4
	posSize         = 3 * 8
	indexRecordSize = 8 + 8 + 8
)

// WriteFile stores repo at path, replacing any existing file.
func WriteFile(path string, repo *hrtf.Repository) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hrdb: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("hrdb: %w", cerr)
		}
	}()

	return Write(f, repo)
}

// Write encodes repo to w. Impulse responses are stored as float32.
func Write(w io.Writer, repo *hrtf.Repository) error {
	m := repo.FilterLen()
	audioSize := uint32(hrtf.Ears * m * 4)
	entryBody := uint64(subHeaderSize + posSize + subHeaderSize + int(audioSize))
	entrySize := uint64(chunkHeaderSize) + entryBody

	n := repo.Len()
	indexOffset := uint64(headerSize) + uint64(n)*entrySize

	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	put := func(v any) error {
		return binary.Write(bw, le, v)
	}

	if _, err := bw.Write(magicFile[:]); err != nil {
		return fmt.Errorf("hrdb: writing header: %w", err)
	}
	for _, v := range []any{
		uint16(Version),
		uint32(n),
		repo.SampleRate(),
		uint32(m),
		indexOffset,
	} {
		if err := put(v); err != nil {
			return fmt.Errorf("hrdb: writing header: %w", err)
		}
	}

	samples := make([]float32, m)
	for i := range n {
		e := repo.At(i)
		err := writeEntry(bw, e, entryBody, audioSize, samples)
		if err != nil {
			return fmt.Errorf("hrdb: writing entry %d: %w", i, err)
		}
	}

	if _, err := bw.Write(magicIndex[:]); err != nil {
		return fmt.Errorf("hrdb: writing index: %w", err)
	}
	if err := put(uint64(n) * indexRecordSize); err != nil {
		return fmt.Errorf("hrdb: writing index: %w", err)
	}
	for i := range n {
		d := repo.At(i).Position.Direction
		rec := [3]any{uint64(headerSize) + uint64(i)*entrySize, d.Azimuth, d.Elevation}
		for _, v := range rec {
			if err := put(v); err != nil {
				return fmt.Errorf("hrdb: writing index: %w", err)
			}
		}
	}

	return bw.Flush()
}

func writeEntry(w io.Writer, e hrtf.Entry, body uint64, audioSize uint32, scratch []float32) error {
	le := binary.LittleEndian

	if _, err := w.Write(magicEntry[:]); err != nil {
		return err
	}
	if err := binary.Write(w, le, body); err != nil {
		return err
	}

	if _, err := w.Write(magicPos[:]); err != nil {
		return err
	}
	pos := [3]float64{e.Position.Azimuth, e.Position.Elevation, e.Position.Radius}
	if err := binary.Write(w, le, uint32(posSize)); err != nil {
		return err
	}
	if err := binary.Write(w, le, pos); err != nil {
		return err
	}

	if _, err := w.Write(magicAudio[:]); err != nil {
		return err
	}
	if err := binary.Write(w, le, audioSize); err != nil {
		return err
	}
	for _, ir := range [hrtf.Ears][]float64{e.Left, e.Right} {
		for i, v := range ir {
			scratch[i] = float32(v)
		}
		if err := binary.Write(w, le, scratch); err != nil {
			return err
		}
	}

	return nil
}
