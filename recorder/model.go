package recorder

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thoughtcast/thoughtcast/stats"
	"github.com/thoughtcast/thoughtcast/store"
)

const (
	tickInterval = 100 * time.Millisecond
	padding      = 2
	maxWidth     = 60
)

type (
	tickMsg  time.Time
	eventMsg Event
)

type styles struct {
	Base      lipgloss.Style
	Main      lipgloss.Style
	Secondary lipgloss.Style
	Hint      lipgloss.Style
	Recording lipgloss.Style
	Paused    lipgloss.Style
	Meter     lipgloss.Style
	Error     lipgloss.Style
}

var defaultStyles = styles{
	Base:      lipgloss.NewStyle().Padding(1, padding),
	Main:      lipgloss.NewStyle().Bold(true),
	Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")),
	Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5f87af")),
	Recording: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f")),
	Paused:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaf00")),
	Meter:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd787")),
	Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
}

// ModelOptions configures the recording screen.
type ModelOptions struct {
	// StatusFile receives the live recording state on every tick.
	StatusFile string
	Notify     bool
}

// Model is the interactive recording screen. It expects the recorder to be
// recording already and quits once the transcription outcome arrives or
// the recording is discarded.
type Model struct {
	started   time.Time
	rec       *Recorder
	session   *store.Session
	result    *Event
	err       error
	logger    *slog.Logger
	opts      ModelOptions
	help      help.Model
	progress  progress.Model
	estimate  stats.Estimate
	estimated bool
	discarded bool
}

// NewModel returns the recording screen for rec.
func NewModel(rec *Recorder, opts ModelOptions) *Model {
	return &Model{
		rec:      rec,
		opts:     opts,
		logger:   rec.logger,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Session returns the session saved when the recording was stopped.
func (m *Model) Session() *store.Session {
	return m.session
}

// Result returns the transcription outcome, if it arrived.
func (m *Model) Result() *Event {
	return m.result
}

// Err returns the error that ended the screen, if any.
func (m *Model) Err() error {
	return m.err
}

// Discarded reports whether the recording was cancelled.
func (m *Model) Discarded() bool {
	return m.discarded
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}

		return eventMsg(ev)
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForEvent(m.rec.Events()))
}
