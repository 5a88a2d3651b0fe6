// Package recorder ties capture, persistence and transcription together and
// provides the interactive recording screen
package recorder

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/config"
	"github.com/thoughtcast/thoughtcast/internal/pathutil"
	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/stats"
	"github.com/thoughtcast/thoughtcast/store"
	"github.com/thoughtcast/thoughtcast/transcribe"
)

const eventBuffer = 8

// Transcriber turns a saved recording into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, id string) (*transcribe.Result, error)
}

// Recorder owns a recording session from start to transcript. A Recorder
// must be closed to release its background workers.
type Recorder struct {
	ctx        context.Context
	state      *recording.State
	capture    *recording.Capture
	ledger     *store.Ledger
	engine     Transcriber
	clipboard  Clipboard
	paths      *pathutil.Paths
	loadConfig transcribe.ConfigLoader
	logger     *slog.Logger
	events     chan Event
	cancel     context.CancelFunc
	now        recording.Clock
	wg         sync.WaitGroup
	drain      time.Duration
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(r *Recorder) {
		r.clipboard = c
	}
}

// WithLogger sets the logger used by the recorder and its capture loop.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// WithDrain changes how long Stop waits for the capture loop.
func WithDrain(d time.Duration) Option {
	return func(r *Recorder) {
		r.drain = d
	}
}

// WithTranscriber replaces the whisper engine.
func WithTranscriber(t Transcriber) Option {
	return func(r *Recorder) {
		r.engine = t
	}
}

// WithClock replaces the wall clock of the recording state.
func WithClock(c recording.Clock) Option {
	return func(r *Recorder) {
		r.now = c
	}
}

// WithConfigLoader replaces the loader that reads config.json.
func WithConfigLoader(load transcribe.ConfigLoader) Option {
	return func(r *Recorder) {
		r.loadConfig = load
	}
}

// New returns a recorder that stores its sessions under paths and records
// from the devices opened by open. open may be nil when the recorder only
// works with existing sessions.
func New(
	paths *pathutil.Paths,
	open recording.DeviceOpener,
	opts ...Option,
) *Recorder {
	r := &Recorder{
		paths:     paths,
		ledger:    store.NewLedger(paths.LedgerFilePath()),
		clipboard: SystemClipboard{},
		logger:    slog.Default(),
		events:    make(chan Event, eventBuffer),
		drain:     recording.DefaultDrain,
		now:       time.Now,
	}

	r.loadConfig = func() (*config.Config, error) {
		return config.Load(paths.ConfigFilePath())
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.engine == nil {
		r.engine = transcribe.New(
			paths.Root,
			r.loadConfig,
			transcribe.WithLogger(r.logger),
		)
	}

	if open == nil {
		open = func() (recording.Device, error) {
			return nil, recording.ErrNoDevice
		}
	}

	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.state = recording.NewState(recording.WithClock(r.now))
	r.capture = recording.NewCapture(open, r.logger)

	return r
}

// Start begins a new recording.
func (r *Recorder) Start() error {
	if err := r.capture.Start(r.state); err != nil {
		return err
	}

	r.logger.Info("recording started")

	return nil
}

// Pause suspends the current recording.
func (r *Recorder) Pause() error {
	return r.state.Pause()
}

// Resume continues a paused recording.
func (r *Recorder) Resume() error {
	return r.state.Resume()
}

// Cancel discards the current recording. Nothing is written to disk.
func (r *Recorder) Cancel() error {
	if err := r.state.Cancel(); err != nil {
		return err
	}

	r.logger.Info("recording cancelled")

	return nil
}

// Duration reports the active recording time in seconds.
func (r *Recorder) Duration() float64 {
	return r.state.Duration()
}

// Status reports the lifecycle state of the recorder.
func (r *Recorder) Status() recording.Status {
	return r.state.Status()
}

// Levels returns the audio level meter of the current recording.
func (r *Recorder) Levels() []float32 {
	return r.state.Levels()
}

// LoadConfig reads config.json from the storage root.
func (r *Recorder) LoadConfig() (*config.Config, error) {
	return r.loadConfig()
}

// Sessions returns every stored session, newest first.
func (r *Recorder) Sessions() ([]store.Session, error) {
	return r.ledger.Sessions()
}

// Ledger exposes the session ledger.
func (r *Recorder) Ledger() *store.Ledger {
	return r.ledger
}

// Transcript returns the saved transcript of session id.
func (r *Recorder) Transcript(id string) (string, error) {
	return transcribe.LoadTranscript(r.paths.Root, id)
}

// CopyToClipboard copies the transcript of session id to the clipboard.
func (r *Recorder) CopyToClipboard(id string) error {
	text, err := r.Transcript(id)
	if err != nil {
		if errors.Is(err, transcribe.ErrTranscriptNotFound) {
			return ErrNoTranscript
		}

		return err
	}

	if text == "" {
		return ErrNoTranscript
	}

	return r.clipboard.WriteAll(text)
}

// Estimate predicts how long transcribing audioSeconds of audio will take
// from past sessions. It reports false when there is not enough history.
func (r *Recorder) Estimate(audioSeconds float64) (stats.Estimate, bool, error) {
	sessions, err := r.ledger.Sessions()
	if err != nil {
		return stats.Estimate{}, false, err
	}

	var model string

	if cfg, cerr := r.loadConfig(); cerr == nil {
		model = cfg.ModelPath
	}

	est, ok := stats.Predict(stats.Extract(sessions), model, audioSeconds)

	return est, ok, nil
}

// Retranscribe runs transcription again for an existing session and
// returns the new text.
func (r *Recorder) Retranscribe(ctx context.Context, id string) (string, error) {
	sess, err := r.ledger.Find(id)
	if err != nil {
		return "", err
	}

	audio := r.paths.Abs(sess.AudioPath)

	if _, err = os.Stat(audio); err != nil {
		return "", ErrAudioMissing.Fmt(audio)
	}

	started := time.Now()

	res, err := r.engine.Transcribe(ctx, audio, id)
	if err != nil {
		return "", err
	}

	elapsed := time.Since(started)

	_, err = r.ledger.Update(id, func(s *store.Session) {
		s.TranscriptPath = res.TranscriptPath
		s.Preview = transcribe.Preview(res.Text)

		if res.Text != "" && s.Duration > 0 {
			s.SetStats(elapsed.Seconds(), res.Model)
		}
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("session retranscribed", slog.String("id", id))

	return res.Text, nil
}

// Events delivers the outcome of every transcription started by Stop.
func (r *Recorder) Events() <-chan Event {
	return r.events
}

// Close cancels running transcriptions and waits for their workers.
func (r *Recorder) Close() error {
	r.cancel()
	r.wg.Wait()

	if r.state.IsActive() {
		return r.state.Cancel()
	}

	return nil
}
