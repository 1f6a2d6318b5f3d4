package main

import (
	"context"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-binaural/internal/audiofile"
	"github.com/cwbudde/algo-binaural/internal/cli"
	"github.com/cwbudde/algo-binaural/internal/logging"
	"github.com/cwbudde/algo-binaural/internal/player"
	"github.com/cwbudde/algo-binaural/internal/ui"
	"github.com/cwbudde/algo-binaural/spatial"
)

// PlayCmd plays a file through the default output device.
type PlayCmd struct {
	DatabaseFlags `embed:""`
	RenderFlags   `embed:""`

	Step   float64 `default:"10" help:"Degrees per arrow key press."`
	Source string  `arg:"" type:"existingfile" help:"Mono or stereo WAV/MP3 source (mixed to mono)."`
}

func (c *PlayCmd) Run(g *Globals) error {
	logger, closer, err := logging.OpenFile(g.LogFile, g.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, dbName, err := c.load()
	if err != nil {
		return err
	}

	source, err := audiofile.ReadMono(c.Source, repo.SampleRate())
	if err != nil {
		return err
	}

	steering := spatial.NewSteering(c.direction(), c.Step)
	r, err := newRenderer(repo, source, steering, c.RenderFlags, logger)
	if err != nil {
		return err
	}

	logger.Info("playback start",
		"source", c.Source,
		"database", dbName,
		"entries", repo.Len(),
		"filter_length", repo.FilterLen(),
		"transform_size", r.TransformSize(),
		"block_size", r.BlockSize(),
		"latency_ms", r.Latency()*1000,
	)

	p, err := player.New(int(math.Round(repo.SampleRate())), r)
	if err != nil {
		return err
	}
	defer p.Close()

	model := ui.NewModel(steering, r, ui.Session{
		Source:     c.Source,
		Database:   dbName,
		Entries:    repo.Len(),
		SampleRate: repo.SampleRate(),
		BlockSize:  r.BlockSize(),
		FadeBlocks: r.FadeBlocks(),
		Duration:   time.Duration(float64(len(source)) / repo.SampleRate() * float64(time.Second)),
	})
	prog := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logged := make(chan struct{})
	go func() {
		r.LogEvents(ctx)
		close(logged)
	}()

	p.Start()
	go func() {
		prog.Send(ui.DoneMsg{Err: p.Wait(ctx)})
	}()

	final, err := prog.Run()
	r.Stop()
	cancel()
	<-logged
	if err != nil {
		return fmt.Errorf("UI error: %w", err)
	}

	m, _ := final.(ui.Model)
	violations := r.Status().Violations
	logger.Info("playback end",
		"blocks", p.Blocks(),
		"violations", violations,
		"quit", m.Quitting,
	)
	if violations > 0 {
		cli.PrintWarning(fmt.Sprintf("%d blocks were replaced by silence, see %s", violations, g.LogFile))
	}

	return m.Err
}
