package hrdb

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-binaural/hrtf"
)

// Version is the container version this package reads and writes.
const Version = 1

// Limits that protect the reader from corrupt headers.
const (
	maxEntries  = 1 << 20
	maxIRLength = 1 << 20
)

var (
	magicFile  = [4]byte{'H', 'R', 'D', 'B'}
	magicEntry = [4]byte{'E', 'N', 'T', 'R'}
	magicPos   = [4]byte{'P', 'O', 'S', '-'}
	magicAudio = [4]byte{'A', 'U', 'D', 'I'}
	magicIndex = [4]byte{'I', 'N', 'D', 'X'}
)

// Errors returned when decoding a database.
var (
	ErrInvalidMagic       = errors.New("hrdb: not an HRDB file")
	ErrUnsupportedVersion = errors.New("hrdb: unsupported version")
	ErrCorrupt            = errors.New("hrdb: corrupt file")
)

type header struct {
	count       uint32
	sampleRate  float64
	irLength    uint32
	indexOffset uint64
}

// ReadFile loads the database at path.
func ReadFile(path string) (*hrtf.Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hrdb: %w", err)
	}
	defer f.Close()

	repo, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return repo, nil
}

// Read decodes a database from r and validates it into a repository.
func Read(r io.ReadSeeker) (*hrtf.Repository, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	offsets, err := readIndex(r, h)
	if err != nil {
		return nil, err
	}

	entries := make([]hrtf.Entry, len(offsets))
	for i, off := range offsets {
		e, err := readEntry(r, off, int(h.irLength))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = e
	}

	return hrtf.New(h.sampleRate, entries)
}

func readHeader(r io.Reader) (header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return header{}, fmt.Errorf("hrdb: reading magic: %w", err)
	}
	if magic != magicFile {
		return header{}, fmt.Errorf("%w: magic %q", ErrInvalidMagic, magic)
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return header{}, fmt.Errorf("hrdb: reading version: %w", err)
	}
	if version != Version {
		return header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var h header
	for _, field := range []struct {
		name string
		dst  any
	}{
		{"entry count", &h.count},
		{"sample rate", &h.sampleRate},
		{"ir length", &h.irLength},
		{"index offset", &h.indexOffset},
	} {
		if err := binary.Read(r, binary.LittleEndian, field.dst); err != nil {
			return header{}, fmt.Errorf("hrdb: reading %s: %w", field.name, err)
		}
	}

	if h.count > maxEntries {
		return header{}, fmt.Errorf("%w: %d entries", ErrCorrupt, h.count)
	}
	if h.irLength == 0 || h.irLength > maxIRLength {
		return header{}, fmt.Errorf("%w: impulse response length %d", ErrCorrupt, h.irLength)
	}

	return h, nil
}

// readIndex returns the entry offsets listed in the INDX chunk.
func readIndex(r io.ReadSeeker, h header) ([]uint64, error) {
	if h.indexOffset > math.MaxInt64 {
		return nil, fmt.Errorf("%w: index offset %d", ErrCorrupt, h.indexOffset)
	}
	if _, err := r.Seek(int64(h.indexOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("hrdb: seeking to index: %w", err)
	}

	size, err := expectChunk64(r, magicIndex)
	if err != nil {
		return nil, err
	}

	const recordSize = 24
	if size != uint64(h.count)*recordSize {
		return nil, fmt.Errorf("%w: index of %d bytes for %d entries", ErrCorrupt, size, h.count)
	}

	br := bufio.NewReader(io.LimitReader(r, int64(size)))
	offsets := make([]uint64, h.count)
	for i := range offsets {
		var rec struct {
			Offset    uint64
			Azimuth   float64
			Elevation float64
		}
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("hrdb: reading index record %d: %w", i, err)
		}
		offsets[i] = rec.Offset
	}

	return offsets, nil
}

func readEntry(r io.ReadSeeker, offset uint64, irLength int) (hrtf.Entry, error) {
	if offset > math.MaxInt64 {
		return hrtf.Entry{}, fmt.Errorf("%w: entry offset %d", ErrCorrupt, offset)
	}
	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return hrtf.Entry{}, fmt.Errorf("hrdb: seeking to entry: %w", err)
	}

	size, err := expectChunk64(r, magicEntry)
	if err != nil {
		return hrtf.Entry{}, err
	}

	br := bufio.NewReader(io.LimitReader(r, int64(min(size, math.MaxInt64))))

	var (
		pos      hrtf.Position
		irs      [][]float64
		hasPos   bool
		hasAudio bool
		read     uint64
	)

	for read < size {
		var sub [4]byte
		if _, err := io.ReadFull(br, sub[:]); err != nil {
			return hrtf.Entry{}, fmt.Errorf("%w: truncated entry: %w", ErrCorrupt, err)
		}
		var subSize uint32
		if err := binary.Read(br, binary.LittleEndian, &subSize); err != nil {
			return hrtf.Entry{}, fmt.Errorf("%w: truncated entry: %w", ErrCorrupt, err)
		}
		read += 8

		switch sub {
		case magicPos:
			if subSize != 24 {
				return hrtf.Entry{}, fmt.Errorf("%w: POS- chunk of %d bytes", ErrCorrupt, subSize)
			}
			var raw [3]float64
			if err := binary.Read(br, binary.LittleEndian, &raw); err != nil {
				return hrtf.Entry{}, fmt.Errorf("hrdb: reading position: %w", err)
			}
			pos = hrtf.Position{
				Direction: hrtf.Direction{Azimuth: raw[0], Elevation: raw[1]},
				Radius:    raw[2],
			}
			hasPos = true

		case magicAudio:
			irs, err = readAudio(br, subSize, irLength)
			if err != nil {
				return hrtf.Entry{}, err
			}
			hasAudio = true

		default:
			if _, err := br.Discard(int(subSize)); err != nil {
				return hrtf.Entry{}, fmt.Errorf("%w: skipping %q: %w", ErrCorrupt, sub, err)
			}
		}

		read += uint64(subSize)
	}

	if !hasPos || !hasAudio {
		return hrtf.Entry{}, fmt.Errorf("%w: entry without position or audio", ErrCorrupt)
	}

	return hrtf.NewEntry(pos, irs)
}

// readAudio decodes planar float32 channels of irLength samples each.
func readAudio(r io.Reader, size uint32, irLength int) ([][]float64, error) {
	perChannel := uint32(irLength) * 4
	if size%perChannel != 0 {
		return nil, fmt.Errorf("%w: AUDI chunk of %d bytes for length %d", ErrCorrupt, size, irLength)
	}
	channels := int(size / perChannel)
	if channels != hrtf.Ears {
		return nil, fmt.Errorf("%w: got %d channels", hrtf.ErrEarCount, channels)
	}

	raw := make([]float32, irLength)
	irs := make([][]float64, channels)
	for ch := range irs {
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("hrdb: reading channel %d: %w", ch, err)
		}
		irs[ch] = make([]float64, irLength)
		for i, v := range raw {
			irs[ch][i] = float64(v)
		}
	}

	return irs, nil
}

func expectChunk64(r io.Reader, want [4]byte) (uint64, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, fmt.Errorf("hrdb: reading %q magic: %w", want, err)
	}
	if magic != want {
		return 0, fmt.Errorf("%w: expected %q chunk, got %q", ErrCorrupt, want, magic)
	}

	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return 0, fmt.Errorf("hrdb: reading %q size: %w", want, err)
	}
	return size, nil
}
