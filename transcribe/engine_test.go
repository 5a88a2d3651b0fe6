package transcribe

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtcast/thoughtcast/internal/config"
	"github.com/thoughtcast/thoughtcast/internal/osutil"
)

const (
	whisperOK = `#!/bin/sh
printf '[00:00:00.000 --> 00:00:02.000]\n Hello from whisper\n' > "$4.txt"
`
	whisperFails = `#!/bin/sh
echo "model could not be loaded" >&2
exit 3
`
	whisperSilent = `#!/bin/sh
exit 0
`
	whisperLate = `#!/bin/sh
(sleep 0.1; echo "late text" > "$4.txt") >/dev/null 2>&1 &
`
)

type fixture struct {
	root  string
	audio string
	cfg   *config.Config
}

func setup(t *testing.T, script string) *fixture {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		t.Skip("shell script fixtures need a POSIX shell")
	}

	root := t.TempDir()
	bin := filepath.Join(root, "whisper")
	model := filepath.Join(root, "ggml-base.bin")
	audio := filepath.Join(root, "audio", "2024-01-01_10-00-00.wav")

	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Dir(audio), 0o755))
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o600))

	return &fixture{
		root:  root,
		audio: audio,
		cfg: &config.Config{
			WhisperPath: bin,
			ModelPath:   model,
		},
	}
}

func (f *fixture) engine(opts ...Option) *Engine {
	opts = append(
		[]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))},
		opts...,
	)

	return New(f.root, func() (*config.Config, error) {
		return f.cfg, nil
	}, opts...)
}

func TestTranscribe(t *testing.T) {
	f := setup(t, whisperOK)

	res, err := f.engine().Transcribe(context.Background(), f.audio, "2024-01-01_10-00-00")
	require.NoError(t, err)

	assert.Equal(t, "text/2024-01-01_10-00-00.txt", res.TranscriptPath)
	assert.Equal(t, "Hello from whisper", res.Text)
	assert.Equal(t, f.cfg.ModelPath, res.Model)
	assert.Positive(t, res.Elapsed)

	saved, err := LoadTranscript(f.root, "2024-01-01_10-00-00")
	require.NoError(t, err)
	assert.Equal(t, "Hello from whisper", saved)

	assert.NoFileExists(t, f.audio+".txt")
}

func TestTranscribeWaitsForLateOutput(t *testing.T) {
	f := setup(t, whisperLate)

	res, err := f.engine(WithSettle(2*time.Second)).
		Transcribe(context.Background(), f.audio, "late")
	require.NoError(t, err)
	assert.Equal(t, "late text", res.Text)
}

func TestTranscribeErrors(t *testing.T) {
	testCases := []struct {
		name     string
		script   string
		mutate   func(*fixture)
		expected error
		contains string
	}{
		{
			name:     "tool missing",
			script:   whisperOK,
			mutate:   func(f *fixture) { f.cfg.WhisperPath = filepath.Join(f.root, "nope") },
			expected: ErrToolMissing,
		},
		{
			name:     "model missing",
			script:   whisperOK,
			mutate:   func(f *fixture) { f.cfg.ModelPath = filepath.Join(f.root, "nope.bin") },
			expected: ErrModelMissing,
		},
		{
			name:     "process failed",
			script:   whisperFails,
			expected: ErrProcessFailed,
			contains: "model could not be loaded",
		},
		{
			name:     "output missing",
			script:   whisperSilent,
			expected: ErrOutputMissing,
			contains: ".wav.txt",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t, tc.script)
			if tc.mutate != nil {
				tc.mutate(f)
			}

			_, err := f.engine(WithSettle(50*time.Millisecond)).
				Transcribe(context.Background(), f.audio, "x")
			require.ErrorIs(t, err, tc.expected)

			if tc.contains != "" {
				assert.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestTranscribeConfigError(t *testing.T) {
	e := New(t.TempDir(), func() (*config.Config, error) {
		return nil, config.ErrConfigMissing.Fmt("/x/config.json")
	})

	_, err := e.Transcribe(context.Background(), "a.wav", "a")
	assert.ErrorIs(t, err, config.ErrConfigMissing)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/data/audio/a.wav.txt", OutputPath("/data/audio/a.wav"))
}
