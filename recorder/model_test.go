package recorder

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/store"
)

func TestRenderLevels(t *testing.T) {
	assert.Equal(t, "▁▁▁▁▁▁▁▁▁▁▁▁▁▁▁▁▁▁▁▁", renderLevels(nil))
	assert.Equal(t, "▁▅█", renderLevels([]float32{0, 0.5, 1}))
}

func TestModelPauseAndStop(t *testing.T) {
	f := setup(t)
	statusFile := filepath.Join(t.TempDir(), "status.json")
	m := NewModel(f.rec, ModelOptions{StatusFile: statusFile})

	f.record(t, 2*time.Second)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, recording.StatusPaused, f.rec.Status())

	m.Update(tickMsg(time.Now()))

	status, err := store.ReadStatus(statusFile)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "paused", status.State)
	assert.InDelta(t, 2.0, status.Duration, 1e-9)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, recording.StatusRecording, f.rec.Status())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.Session())
	assert.NotEmpty(t, m.View())

	_, cmd := m.Update(eventMsg(f.event(t)))
	require.NotNil(t, cmd)
	require.NotNil(t, m.Result())
	assert.Equal(t, EventComplete, m.Result().Kind)
	assert.Empty(t, m.View())
	assert.NoFileExists(t, statusFile)
}

func TestModelDiscard(t *testing.T) {
	f := setup(t)
	m := NewModel(f.rec, ModelOptions{})

	f.record(t, time.Second)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, m.Discarded())
	assert.Equal(t, recording.StatusIdle, f.rec.Status())

	sessions, err := f.rec.Sessions()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
