package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/internal/cli"
	"github.com/cwbudde/algo-binaural/measure/ir"
)

// InfoCmd prints database and block geometry.
type InfoCmd struct {
	DatabaseFlags `embed:""`

	TransformSize int `short:"n" default:"4096" help:"FFT size N to report block geometry for."`
}

func (c *InfoCmd) Run(ctx *kong.Context) error {
	repo, dbName, err := c.load()
	if err != nil {
		return err
	}

	engine, err := conv.NewBlockEngine(repo.FilterLen(), c.TransformSize)
	if err != nil {
		return err
	}

	minAz, maxAz := math.Inf(1), math.Inf(-1)
	minEl, maxEl := math.Inf(1), math.Inf(-1)
	for _, p := range repo.Positions() {
		minAz, maxAz = min(minAz, p.Azimuth), max(maxAz, p.Azimuth)
		minEl, maxEl = min(minEl, p.Elevation), max(maxEl, p.Elevation)
	}

	cues, err := interauralRange(repo)
	if err != nil {
		return err
	}

	fs := repo.SampleRate()
	cli.PrintTitle(ctx.Stdout, dbName)
	cli.PrintKV(ctx.Stdout,
		cli.KV{Key: "Positions", Value: fmt.Sprint(repo.Len())},
		cli.KV{Key: "Azimuth", Value: fmt.Sprintf("%.1f° … %.1f°", minAz, maxAz)},
		cli.KV{Key: "Elevation", Value: fmt.Sprintf("%.1f° … %.1f°", minEl, maxEl)},
		cli.KV{Key: "Sample rate", Value: fmt.Sprintf("%.0f Hz", fs)},
		cli.KV{Key: "Filter length M", Value: fmt.Sprint(engine.FilterLen())},
		cli.KV{Key: "Transform N", Value: fmt.Sprint(engine.TransformSize())},
		cli.KV{Key: "Block L", Value: fmt.Sprint(engine.StepSize())},
		cli.KV{Key: "Latency", Value: fmt.Sprintf("%.1f ms", float64(engine.StepSize())/fs*1000)},
		cli.KV{Key: "Max |ITD|", Value: fmt.Sprintf("%.0f µs", cues.maxITD*1e6)},
		cli.KV{Key: "Max |ILD|", Value: fmt.Sprintf("%.1f dB", cues.maxILD)},
	)
	return nil
}

type cueRange struct {
	maxITD float64
	maxILD float64
}

// interauralRange returns the largest interaural cues in the set. Entries
// with a silent ear are skipped.
func interauralRange(repo *hrtf.Repository) (cueRange, error) {
	analyzer := ir.NewAnalyzer(repo.SampleRate())

	var cr cueRange
	for i := range repo.Len() {
		e := repo.At(i)
		cues, err := analyzer.Interaural(e.Left, e.Right)
		if errors.Is(err, ir.ErrSilentIR) {
			continue
		}
		if err != nil {
			return cueRange{}, fmt.Errorf("entry %d (%s): %w", i, e.Position, err)
		}
		cr.maxITD = max(cr.maxITD, math.Abs(cues.ITD))
		cr.maxILD = max(cr.maxILD, math.Abs(cues.ILD))
	}
	return cr, nil
}
