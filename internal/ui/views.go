package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-binaural/spatial"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E86AB"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2E86AB")).
			Padding(0, 1).
			Width(60)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)

	fadeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F18F01"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0392B")).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// meterFloorDB is the level shown as an empty meter.
const meterFloorDB = -60.0

func renderPlaybackView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(renderDetails(m)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("←/→ azimuth  ↑/↓ elevation  r reset  q quit"))
	b.WriteString("\n")

	return b.String()
}

func renderHeader(m Model) string {
	title := titleStyle.Render("binaural 🎧 " + filepath.Base(m.session.Source))
	sub := subtitleStyle.Render(fmt.Sprintf("%s · %d positions · %.0f Hz · %d-frame blocks",
		filepath.Base(m.session.Database), m.session.Entries, m.session.SampleRate, m.session.BlockSize))
	return title + "\n" + sub
}

func renderDetails(m Model) string {
	var c strings.Builder

	row := func(label, value string) {
		c.WriteString(labelStyle.Render(label))
		c.WriteString(value)
		c.WriteString("\n")
	}

	row("Desired", fmt.Sprintf("%s  (step %.0f°)", m.desired, m.control.StepSize()))
	row("Filter", fmt.Sprintf("#%d  %s", m.status.Index, m.status.Position))
	row("State", renderState(m.status, m.session.FadeBlocks))
	row("Peak", renderMeter(m.status.PeakDB, 30))
	row("RMS", renderMeter(m.status.RMSDB, 30))
	row("Time", fmt.Sprintf("%s / %s", formatDuration(m.Elapsed().Seconds()), formatDuration(m.session.Duration.Seconds())))

	if m.status.Violations > 0 {
		row("Dropouts", warnStyle.Render(fmt.Sprintf("%d silent blocks (size mismatch)", m.status.Violations)))
	}

	return strings.TrimRight(c.String(), "\n")
}

func renderState(st spatial.Status, fadeTotal int) string {
	if st.State != spatial.StateFading || fadeTotal <= 0 {
		return okStyle.Render("stable")
	}

	done := fadeTotal - st.FadeRemaining
	return fadeStyle.Render(fmt.Sprintf("fading %s %d/%d", renderBar(float64(done)/float64(fadeTotal), 20), done, fadeTotal))
}

// renderMeter draws a level bar from meterFloorDB to 0 dBFS.
func renderMeter(db float64, width int) string {
	label := "-inf dB"
	if !math.IsInf(db, -1) && !math.IsNaN(db) {
		label = fmt.Sprintf("%.1f dB", db)
	}

	frac := 0.0
	if !math.IsNaN(db) {
		frac = math.Max(0, math.Min(1, (db-meterFloorDB)/-meterFloorDB))
	}

	return renderBar(frac, width) + " " + label
}

func renderBar(frac float64, width int) string {
	filled := int(math.Round(frac * float64(width)))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func formatDuration(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func renderSummary(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(warnStyle.Render(fmt.Sprintf("✗ playback failed: %v", m.Err)))
	case m.Quitting:
		b.WriteString(fmt.Sprintf("■ stopped after %s", formatDuration(m.Elapsed().Seconds())))
	default:
		b.WriteString(okStyle.Render(fmt.Sprintf("✓ finished, %d blocks rendered", m.status.Blocks)))
	}
	b.WriteString("\n")

	return b.String()
}
