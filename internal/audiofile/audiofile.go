// Package audiofile decodes source audio for the renderer and writes
// rendered stereo to disk.
package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/resample"
)

// Errors returned by the decoders.
var (
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	ErrInvalidFile       = errors.New("audiofile: invalid file")
)

// Clip is a decoded file mixed down to mono.
type Clip struct {
	Samples    []float64
	SampleRate float64
	Channels   int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / c.SampleRate
}

// Decode reads a WAV or MP3 file and averages its channels to mono.
func Decode(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	var clip *Clip
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		clip, err = decodeWAV(f)
	case ".mp3":
		clip, err = decodeMP3(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// ReadMono decodes path and resamples it to targetRate.
func ReadMono(path string, targetRate float64) ([]float64, error) {
	clip, err := Decode(path)
	if err != nil {
		return nil, err
	}

	out, err := resample.Convert(clip.Samples, clip.SampleRate, targetRate, resample.WithQuality(resample.QualityBest))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func decodeWAV(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}
	// go-audio/wav decodes integer PCM only.
	if d.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: WAV audio format %d, only PCM is supported", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, channels)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	scale := 1 / math.Exp2(float64(bitDepth-1))
	offset := 0.0
	if bitDepth == 8 {
		// 8-bit WAV is unsigned.
		offset = -128
	}

	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := range mono {
		var sum float64
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch]) + offset
		}
		mono[i] = sum * scale / float64(channels)
	}

	return &Clip{Samples: mono, SampleRate: float64(d.SampleRate), Channels: channels}, nil
}

func decodeMP3(r io.Reader) (*Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	// go-mp3 always yields 16-bit little-endian stereo.
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	const frameBytes = 4
	if len(raw) < frameBytes {
		return nil, fmt.Errorf("%w: no audio frames", ErrInvalidFile)
	}
	mono := make([]float64, len(raw)/frameBytes)
	for i := range mono {
		left := int16(binary.LittleEndian.Uint16(raw[i*frameBytes:]))
		right := int16(binary.LittleEndian.Uint16(raw[i*frameBytes+2:]))
		mono[i] = (float64(left) + float64(right)) / (2 * 32768)
	}

	return &Clip{Samples: mono, SampleRate: float64(d.SampleRate()), Channels: 2}, nil
}

// WriteStereo writes left and right as a 16-bit PCM WAV file. Samples
// are clipped to full scale.
func WriteStereo(path string, left, right []float64, sampleRate int) (err error) {
	if len(left) != len(right) {
		return fmt.Errorf("audiofile: channel lengths differ: %d != %d", len(left), len(right))
	}
	if sampleRate <= 0 {
		return fmt.Errorf("audiofile: invalid sample rate %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audiofile: %w", cerr)
		}
	}()

	const bitDepth = 16
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 2, 1)

	data := make([]int, 2*len(left))
	for i := range left {
		data[2*i] = toPCM16(left[i])
		data[2*i+1] = toPCM16(right[i])
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: writing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalizing %s: %w", path, err)
	}
	return nil
}

func toPCM16(x float64) int {
	return int(math.Round(core.ClipSample(x) * 32767))
}
