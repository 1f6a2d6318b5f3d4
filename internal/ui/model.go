// Package ui provides the Bubbletea terminal interface that steers the
// binaural renderer.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/spatial"
)

// refreshInterval is the status redraw period.
const refreshInterval = 100 * time.Millisecond

// Controller accepts direction changes.
type Controller interface {
	Step(m spatial.Move)
	Reset()
	Desired() hrtf.Direction
	StepSize() float64
}

// Monitor exposes renderer state and cancellation.
type Monitor interface {
	Status() spatial.Status
	Stop()
}

// Session describes what is being played, for the header.
type Session struct {
	Source     string
	Database   string
	Entries    int
	SampleRate float64
	BlockSize  int
	FadeBlocks int
	Duration   time.Duration
}

// Model is the Bubbletea model for interactive playback.
type Model struct {
	control Controller
	monitor Monitor
	session Session

	status  spatial.Status
	desired hrtf.Direction
	lastKey string

	Quitting bool
	Done     bool
	Err      error

	Width int
}

// NewModel creates a model steering control and watching monitor.
func NewModel(control Controller, monitor Monitor, session Session) Model {
	return Model{
		control: control,
		monitor: monitor,
		session: session,
		status:  monitor.Status(),
		desired: control.Desired(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses, ticks and completion.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "left", "h":
			m.control.Step(spatial.MoveLeft)
		case "right", "l":
			m.control.Step(spatial.MoveRight)
		case "up", "k":
			m.control.Step(spatial.MoveUp)
		case "down", "j":
			m.control.Step(spatial.MoveDown)
		case "r":
			m.control.Reset()
		case "q", "esc", "ctrl+c":
			m.monitor.Stop()
			m.Quitting = true
			return m, tea.Quit
		default:
			return m, nil
		}
		m.lastKey = key
		m.desired = m.control.Desired()

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case tickMsg:
		m.status = m.monitor.Status()
		m.desired = m.control.Desired()
		return m, tick()

	case DoneMsg:
		m.status = m.monitor.Status()
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.Done || m.Quitting {
		return renderSummary(m)
	}
	return renderPlaybackView(m)
}

// Elapsed returns the rendered audio time.
func (m Model) Elapsed() time.Duration {
	if m.session.SampleRate <= 0 {
		return 0
	}
	frames := float64(m.status.Blocks) * float64(m.session.BlockSize)
	return time.Duration(frames / m.session.SampleRate * float64(time.Second))
}
