package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/internal/audiofile"
	"github.com/cwbudde/algo-binaural/internal/cli"
	"github.com/cwbudde/algo-binaural/internal/logging"
	"github.com/cwbudde/algo-binaural/spatial"
	"github.com/cwbudde/algo-binaural/stats/level"
)

// verifyTolerance is the largest deviation from direct convolution that
// --verify accepts.
const verifyTolerance = 1e-9

// RenderCmd renders a file offline at one direction.
type RenderCmd struct {
	DatabaseFlags `embed:""`
	RenderFlags   `embed:""`

	Output string `short:"o" type:"path" help:"Output WAV file (default: <source>.binaural.wav)."`
	Verify bool   `help:"Compare both ears against direct convolution with the selected filter pair."`
	Source string `arg:"" type:"existingfile" help:"Mono or stereo WAV/MP3 source (mixed to mono)."`
}

func (c *RenderCmd) Run(g *Globals, ctx *kong.Context) error {
	logger, err := logging.New(ctx.Stderr, g.LogLevel)
	if err != nil {
		return err
	}

	repo, dbName, err := c.load()
	if err != nil {
		return err
	}

	source, err := audiofile.ReadMono(c.Source, repo.SampleRate())
	if err != nil {
		return err
	}

	steering := spatial.NewSteering(c.direction(), 0)
	r, err := newRenderer(repo, source, steering, c.RenderFlags, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	left, right := renderOffline(r, len(source))
	elapsed := time.Since(start)

	output := c.Output
	if output == "" {
		output = strings.TrimSuffix(c.Source, filepath.Ext(c.Source)) + ".binaural.wav"
	}
	if err := audiofile.WriteStereo(output, left, right, int(repo.SampleRate())); err != nil {
		return err
	}

	st := r.Status()
	levels := [2]level.Stats{level.Calculate(left), level.Calculate(right)}
	cli.PrintTitle(ctx.Stdout, "Rendered "+filepath.Base(c.Source))
	rows := []cli.KV{
		{Key: "Database", Value: dbName},
		{Key: "Filter", Value: fmt.Sprintf("#%d %s", st.Index, st.Position)},
		{Key: "Blocks", Value: fmt.Sprintf("%d × %d frames", st.Blocks, r.BlockSize())},
		{Key: "Duration", Value: fmt.Sprintf("%.2f s", float64(len(source))/repo.SampleRate())},
		{Key: "Render time", Value: elapsed.Round(time.Millisecond).String()},
		{Key: "Peak L/R", Value: fmt.Sprintf("%.1f / %.1f dBFS", levels[0].PeakDB, levels[1].PeakDB)},
		{Key: "RMS L/R", Value: fmt.Sprintf("%.1f / %.1f dBFS", levels[0].RMSDB, levels[1].RMSDB)},
		{Key: "Output", Value: output},
	}
	if clipped := levels[0].Clipped + levels[1].Clipped; clipped > 0 {
		cli.PrintWarning(fmt.Sprintf("%d samples clipped at full scale", clipped))
	}

	if c.Verify {
		dev, err := verify(source, left, right, repo.At(st.Index).Left, repo.At(st.Index).Right)
		if err != nil {
			return err
		}
		rows = append(rows, cli.KV{Key: "Max deviation", Value: fmt.Sprintf("%.3g", dev)})
		if dev > verifyTolerance {
			cli.PrintKV(ctx.Stdout, rows...)
			return fmt.Errorf("render deviates from direct convolution by %.3g", dev)
		}
	}

	cli.PrintKV(ctx.Stdout, rows...)
	return nil
}

// renderOffline pulls blocks until the source is exhausted and returns
// frames samples per ear. Offline there is no deadline, so events are
// logged after every block.
func renderOffline(r *spatial.Renderer, frames int) (left, right []float64) {
	l := r.BlockSize()
	blockL := make([]float64, l)
	blockR := make([]float64, l)

	left = make([]float64, 0, frames+l)
	right = make([]float64, 0, frames+l)
	for {
		done := r.RenderBlock(blockL, blockR)
		left = append(left, blockL...)
		right = append(right, blockR...)
		r.FlushEvents()
		if done {
			break
		}
	}

	return left[:frames], right[:frames]
}

// verify returns the largest absolute difference between the rendered ears
// and a direct convolution of source with the given filters.
func verify(source, left, right, irLeft, irRight []float64) (float64, error) {
	var dev float64
	for _, ear := range []struct{ got, ir []float64 }{{left, irLeft}, {right, irRight}} {
		want, err := conv.DirectTruncated(source, ear.ir)
		if err != nil {
			return 0, err
		}
		for i, v := range want {
			dev = max(dev, math.Abs(ear.got[i]-v))
		}
	}
	return dev, nil
}
