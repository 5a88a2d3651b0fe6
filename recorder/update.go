package recorder

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/store"
)

// handleTick refreshes the status file and the transcription progress.
func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	m.writeStatusFile()

	if m.session == nil || !m.estimated {
		return m, tick()
	}

	percent := 0.0
	if m.estimate.EstimatedSeconds > 0 {
		percent = time.Since(m.started).Seconds() / m.estimate.EstimatedSeconds
	}

	// the estimate may be too low so hold just short of full
	percent = min(percent, 0.99)

	return m, tea.Batch(tick(), m.progress.SetPercent(percent))
}

func (m *Model) writeStatusFile() {
	if m.opts.StatusFile == "" {
		return
	}

	s := &store.Status{
		UpdatedAt: time.Now(),
		State:     m.rec.Status().String(),
		Duration:  m.rec.Duration(),
	}

	if m.session != nil {
		s.SessionID = m.session.ID
		s.Duration = m.session.Duration
	}

	if m.estimated {
		s.Estimate = m.estimate.EstimatedSeconds
	}

	err := store.WriteStatus(m.opts.StatusFile, s)
	if err != nil {
		m.logger.Debug("writing status file failed", slog.Any("error", err))
	}
}

func (m *Model) stop() (tea.Model, tea.Cmd) {
	sess, err := m.rec.Stop()
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	m.session = sess
	m.started = time.Now()

	est, ok, err := m.rec.Estimate(sess.Duration)
	if err != nil {
		m.logger.Warn("estimating transcription time failed", slog.Any("error", err))
	}

	m.estimate, m.estimated = est, ok

	return m, nil
}

func (m *Model) handleEvent(ev Event) (tea.Model, tea.Cmd) {
	m.result = &ev

	if m.opts.Notify {
		Notify(ev, m.logger)
	}

	if m.opts.StatusFile != "" {
		_ = store.RemoveStatus(m.opts.StatusFile)
	}

	return m, tea.Quit
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	status := m.rec.Status()

	switch {
	case key.Matches(msg, defaultKeymap.togglePause):
		var err error

		switch status {
		case recording.StatusRecording:
			err = m.rec.Pause()
		case recording.StatusPaused:
			err = m.rec.Resume()
		}

		if err != nil {
			m.logger.Warn("toggling pause failed", slog.Any("error", err))
		}

		return m, nil

	case key.Matches(msg, defaultKeymap.stop):
		if !m.rec.state.IsActive() {
			return m, nil
		}

		return m.stop()

	case key.Matches(msg, defaultKeymap.cancel), key.Matches(msg, defaultKeymap.quit):
		if m.rec.state.IsActive() {
			if err := m.rec.Cancel(); err != nil {
				m.err = err
			}

			m.discarded = true
		}

		if m.opts.StatusFile != "" {
			_ = store.RemoveStatus(m.opts.StatusFile)
		}

		return m, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	return m, nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m.handleTick()

	case eventMsg:
		return m.handleEvent(Event(msg))

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		m.help.Width = msg.Width

		return m, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd

	default:
		m.logger.Debug(spew.Sdump(msg))
	}

	return m, nil
}
