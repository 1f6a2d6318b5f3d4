package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/hrtf/hrdb"
	"github.com/cwbudde/algo-binaural/hrtf/synth"
	"github.com/cwbudde/algo-binaural/spatial"
)

// syntheticName labels the built-in database in output.
const syntheticName = "synthetic"

// DatabaseFlags select the HRIR set.
type DatabaseFlags struct {
	Database   string  `short:"d" type:"existingfile" help:"HRIR database (.hrdb). A synthetic spherical-head set is used when omitted."`
	SampleRate float64 `default:"44100" help:"Sample rate of the synthetic set."`
}

// load reads the database file or synthesizes one.
func (f DatabaseFlags) load() (*hrtf.Repository, string, error) {
	if f.Database == "" {
		repo, err := synth.Generate(synth.WithSampleRate(f.SampleRate))
		if err != nil {
			return nil, "", err
		}
		return repo, syntheticName, nil
	}

	repo, err := hrdb.ReadFile(f.Database)
	if err != nil {
		return nil, "", err
	}
	return repo, filepath.Base(f.Database), nil
}

// RenderFlags configure the renderer.
type RenderFlags struct {
	TransformSize int     `short:"n" default:"4096" help:"FFT size N. Rounded up to a power of two of at least the filter length."`
	FadeBlocks    int     `default:"20" help:"Crossfade length in blocks."`
	Azimuth       float64 `default:"45" help:"Initial azimuth in degrees."`
	Elevation     float64 `default:"45" help:"Initial elevation in degrees."`
}

func (f RenderFlags) direction() hrtf.Direction {
	return hrtf.Direction{Azimuth: f.Azimuth, Elevation: f.Elevation}
}

func (f RenderFlags) options(logger *slog.Logger) []spatial.Option {
	return []spatial.Option{
		spatial.WithTransformSize(f.TransformSize),
		spatial.WithFadeBlocks(f.FadeBlocks),
		spatial.WithLogger(logger),
	}
}

func newRenderer(repo *hrtf.Repository, source []float64, steering *spatial.Steering, f RenderFlags, logger *slog.Logger) (*spatial.Renderer, error) {
	r, err := spatial.NewRenderer(repo, source, steering, f.options(logger)...)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return r, nil
}
