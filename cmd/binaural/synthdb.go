package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-binaural/hrtf/hrdb"
	"github.com/cwbudde/algo-binaural/hrtf/synth"
	"github.com/cwbudde/algo-binaural/internal/cli"
)

// SynthDBCmd writes a spherical-head database to disk.
type SynthDBCmd struct {
	SampleRate    float64 `default:"44100" help:"Sample rate in Hz."`
	Length        int     `default:"256" help:"Impulse response length in samples."`
	HeadRadius    float64 `default:"0.0875" help:"Head radius in metres."`
	Radius        float64 `default:"1.2" help:"Source distance stored with each position."`
	AzimuthStep   float64 `default:"10" help:"Azimuth grid spacing in degrees."`
	ElevationStep float64 `default:"10" help:"Elevation grid spacing in degrees."`
	MinElevation  float64 `default:"-40" help:"Lowest elevation in degrees."`

	Output string `arg:"" type:"path" help:"Database file to write."`
}

func (c *SynthDBCmd) Run(ctx *kong.Context) error {
	repo, err := synth.Generate(
		synth.WithSampleRate(c.SampleRate),
		synth.WithLength(c.Length),
		synth.WithHeadRadius(c.HeadRadius),
		synth.WithRadius(c.Radius),
		synth.WithGrid(c.AzimuthStep, c.ElevationStep),
		synth.WithMinElevation(c.MinElevation),
	)
	if err != nil {
		return err
	}

	if err := hrdb.WriteFile(c.Output, repo); err != nil {
		return err
	}

	cli.PrintKV(ctx.Stdout,
		cli.KV{Key: "Wrote", Value: c.Output},
		cli.KV{Key: "Positions", Value: fmt.Sprint(repo.Len())},
		cli.KV{Key: "Filter length M", Value: fmt.Sprint(repo.FilterLen())},
	)
	return nil
}
