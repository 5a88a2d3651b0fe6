// Package transcribe turns recordings into text by running an external
// whisper.cpp compatible executable
package transcribe

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/config"
	"github.com/thoughtcast/thoughtcast/internal/pathutil"
)

// DefaultSettle bounds how long the engine waits for whisper's output file
// to appear after the process exits.
const DefaultSettle = 500 * time.Millisecond

// ConfigLoader returns the current configuration.
type ConfigLoader func() (*config.Config, error)

// Result describes a finished transcription.
type Result struct {
	// TranscriptPath is relative to the storage root.
	TranscriptPath string
	Text           string
	Model          string
	Elapsed        time.Duration
}

// Engine runs transcriptions. The configuration is loaded again for every
// call so edits take effect without a restart.
type Engine struct {
	load   ConfigLoader
	logger *slog.Logger
	root   string
	settle time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithSettle changes how long the engine waits for the output file.
func WithSettle(d time.Duration) Option {
	return func(e *Engine) {
		e.settle = d
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New returns an engine that stores transcripts under root.
func New(root string, load ConfigLoader, opts ...Option) *Engine {
	e := &Engine{
		load:   load,
		root:   root,
		settle: DefaultSettle,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Transcribe runs whisper on the WAV file at audioPath, saves the cleaned
// text as the transcript of session id and removes whisper's own output
// file.
func (e *Engine) Transcribe(
	ctx context.Context,
	audioPath, id string,
) (*Result, error) {
	started := time.Now()

	cfg, err := e.load()
	if err != nil {
		return nil, err
	}

	if err := checkSetup(cfg); err != nil {
		return nil, err
	}

	e.logger.InfoContext(
		ctx,
		"transcription started",
		slog.String("session", id),
		slog.String("model", cfg.ModelPath),
	)

	output, err := e.run(ctx, cfg, audioPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		return nil, errReadOutput.Fmt(output).Wrap(err)
	}

	text := CleanTranscript(string(raw))

	rel, err := SaveTranscript(e.root, id, text)
	if err != nil {
		return nil, err
	}

	if err := os.Remove(output); err != nil {
		e.logger.WarnContext(
			ctx,
			"removing whisper output failed",
			slog.String("path", output),
			slog.Any("error", err),
		)
	}

	res := &Result{
		TranscriptPath: rel,
		Text:           text,
		Model:          cfg.ModelPath,
		Elapsed:        time.Since(started),
	}

	e.logger.InfoContext(
		ctx,
		"transcription finished",
		slog.String("session", id),
		slog.Duration("elapsed", res.Elapsed),
		slog.Int("characters", len(text)),
	)

	return res, nil
}

func checkSetup(cfg *config.Config) error {
	if _, err := os.Stat(cfg.WhisperPath); err != nil {
		return ErrToolMissing.Fmt(cfg.WhisperPath)
	}

	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return ErrModelMissing.Fmt(cfg.ModelPath)
	}

	return nil
}

// OutputPath returns where whisper writes the transcript of audioPath.
func OutputPath(audioPath string) string {
	return pathutil.StripExtension(audioPath) + ".wav.txt"
}

// run executes whisper and returns the path of the text file it produced.
func (e *Engine) run(
	ctx context.Context,
	cfg *config.Config,
	audioPath string,
) (string, error) {
	var stderr bytes.Buffer

	//nolint:gosec // the executable is chosen by the user in the config file
	cmd := exec.CommandContext(
		ctx,
		cfg.WhisperPath,
		"-m", cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
	)

	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}

		return "", ErrProcessFailed.Fmt(msg)
	}

	output := OutputPath(audioPath)

	if !waitForFile(ctx, output, e.settle) {
		return "", ErrOutputMissing.Fmt(output)
	}

	return output, nil
}
