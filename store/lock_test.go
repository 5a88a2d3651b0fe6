package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thoughtcast.db")

	running, err := IsRecording(path)
	require.NoError(t, err)
	assert.False(t, running)

	l, err := AcquireLock(path)
	require.NoError(t, err)

	running, err = IsRecording(path)
	require.NoError(t, err)
	assert.True(t, running)

	_, err = openDB(path, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	_, err = AcquireLock(path)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	runs, err := l.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Ended.IsZero())

	require.NoError(t, l.Release())

	running, err = IsRecording(path)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "status.json")

	s, err := ReadStatus(path)
	require.NoError(t, err)
	assert.Nil(t, s)

	want := &Status{
		UpdatedAt: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
		State:     "recording",
		Duration:  42.5,
	}

	require.NoError(t, WriteStatus(path, want))

	got, err := ReadStatus(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, RemoveStatus(path))
	require.NoError(t, RemoveStatus(path))
}
