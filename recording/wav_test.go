package recording

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio", "clip.wav")

	samples := constant(SampleRate/2, 0.5)

	require.NoError(t, WriteWAV(path, samples))

	d, err := WAVDuration(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	streamer, format, err := OpenWAV(path)
	require.NoError(t, err)

	defer streamer.Close()

	assert.Equal(t, 1, format.NumChannels)
	assert.Equal(t, 2, format.Precision)

	buf := make([][2]float64, 4)
	n, ok := streamer.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 4, n)
	assert.InDelta(t, 0.5, buf[0][0], 1e-3)
}

func TestWriteEmptyWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")

	require.NoError(t, WriteWAV(path, nil))

	d, err := WAVDuration(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}

func TestOpenMissingWAV(t *testing.T) {
	_, _, err := OpenWAV(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
