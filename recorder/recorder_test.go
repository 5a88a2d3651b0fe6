package recorder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtcast/thoughtcast/internal/config"
	"github.com/thoughtcast/thoughtcast/internal/pathutil"
	"github.com/thoughtcast/thoughtcast/internal/testutil"
	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/stats"
	"github.com/thoughtcast/thoughtcast/store"
	"github.com/thoughtcast/thoughtcast/transcribe"
)

const model = "/models/ggml-base.bin"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type fakeDevice struct {
	onFrame func([]float32)
	started chan struct{}
}

func (d *fakeDevice) Start(onFrame func([]float32), _ func(error)) error {
	d.onFrame = onFrame
	close(d.started)

	return nil
}

func (d *fakeDevice) Close() error {
	return nil
}

type fakeTranscriber struct {
	err error
	// gate holds transcription back until it is closed
	gate  chan struct{}
	root  string
	text  string
	calls int
	mu    sync.Mutex
}

func (f *fakeTranscriber) Transcribe(
	_ context.Context,
	_, id string,
) (*transcribe.Result, error) {
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	rel, err := transcribe.SaveTranscript(f.root, id, f.text)
	if err != nil {
		return nil, err
	}

	return &transcribe.Result{
		TranscriptPath: rel,
		Text:           f.text,
		Model:          model,
	}, nil
}

type fakeClipboard struct {
	err    error
	copied []string
	mu     sync.Mutex
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.copied = append(c.copied, text)

	return nil
}

func (c *fakeClipboard) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.copied
}

type fixture struct {
	rec       *Recorder
	paths     *pathutil.Paths
	clock     *fakeClock
	engine    *fakeTranscriber
	clipboard *fakeClipboard
	devices   chan *fakeDevice
}

func setup(t *testing.T) *fixture {
	t.Helper()

	paths, err := pathutil.New(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		paths:     paths,
		clock:     &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		engine:    &fakeTranscriber{root: paths.Root, text: "Buy milk and call the plumber"},
		clipboard: &fakeClipboard{},
		devices:   make(chan *fakeDevice, 4),
	}

	open := func() (recording.Device, error) {
		d := &fakeDevice{started: make(chan struct{})}
		f.devices <- d

		return d, nil
	}

	f.rec = New(
		paths,
		open,
		WithTranscriber(f.engine),
		WithClipboard(f.clipboard),
		WithLogger(discard),
		WithClock(f.clock.Now),
		WithDrain(time.Second),
		WithConfigLoader(func() (*config.Config, error) {
			return &config.Config{ModelPath: model}, nil
		}),
	)

	t.Cleanup(func() {
		_ = f.rec.Close()
	})

	return f
}

// record starts a session, feeds it samples and advances the clock.
func (f *fixture) record(t *testing.T, d time.Duration) {
	t.Helper()

	require.NoError(t, f.rec.Start())

	var dev *fakeDevice

	select {
	case dev = <-f.devices:
	case <-time.After(2 * time.Second):
		t.Fatal("capture device was not opened")
	}

	<-dev.started

	dev.onFrame(make([]float32, 4410))
	f.clock.Advance(d)
}

func (f *fixture) event(t *testing.T) Event {
	t.Helper()

	select {
	case ev := <-f.rec.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no transcription event")
	}

	return Event{}
}

func TestStopTranscribesInBackground(t *testing.T) {
	f := setup(t)
	f.record(t, 5*time.Second)

	sess, err := f.rec.Stop()
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01_10-00-05", sess.ID)
	assert.Equal(t, "2024-03-01T10:00:05Z", sess.Timestamp)
	assert.Equal(t, "audio/2024-03-01_10-00-05.wav", sess.AudioPath)
	assert.Equal(t, store.PlaceholderPreview, sess.Preview)
	assert.InDelta(t, 5.0, sess.Duration, 1e-9)
	assert.FileExists(t, f.paths.Abs(sess.AudioPath))

	ev := f.event(t)
	require.Equal(t, EventComplete, ev.Kind)
	require.NotNil(t, ev.Session)

	assert.Equal(t, sess.ID, ev.SessionID)
	assert.Equal(t, "Buy milk and call the plumber", ev.Session.Preview)
	assert.Equal(t, "text/2024-03-01_10-00-05.txt", ev.Session.TranscriptPath)
	assert.True(t, ev.Session.ClipboardCopied)
	assert.True(t, ev.Session.HasStats())
	assert.Equal(t, model, *ev.Session.ModelPath)
	assert.Equal(t, []string{"Buy milk and call the plumber"}, f.clipboard.texts())
	assert.Equal(t, recording.StatusIdle, f.rec.Status())

	stored, err := f.rec.Ledger().Find(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, ev.Session, stored)
}

func TestStopWithoutRecording(t *testing.T) {
	f := setup(t)

	_, err := f.rec.Stop()
	require.ErrorIs(t, err, recording.ErrNotActive)

	sessions, err := f.rec.Sessions()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCancelPersistsNothing(t *testing.T) {
	f := setup(t)
	f.record(t, 3*time.Second)

	require.NoError(t, f.rec.Cancel())
	assert.Equal(t, recording.StatusIdle, f.rec.Status())
	assert.NoFileExists(t, f.paths.LedgerFilePath())
	assert.NoDirExists(t, f.paths.AudioDir())

	require.ErrorIs(t, f.rec.Cancel(), recording.ErrNotActive)
}

func TestTranscriptionFailureKeepsSession(t *testing.T) {
	f := setup(t)
	f.engine.err = transcribe.ErrToolMissing.Fmt("/opt/whisper/main")
	f.record(t, 2*time.Second)

	sess, err := f.rec.Stop()
	require.NoError(t, err)

	ev := f.event(t)
	require.Equal(t, EventError, ev.Kind)
	assert.Equal(t, sess.ID, ev.SessionID)
	assert.Contains(t, ev.Message, "/opt/whisper/main")
	assert.Equal(t, recording.StatusIdle, f.rec.Status())

	stored, err := f.rec.Ledger().Find(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transcription failed: "+ev.Message, stored.Preview)
	assert.False(t, stored.Transcribed())
	assert.False(t, stored.HasStats())
	assert.FileExists(t, f.paths.Abs(stored.AudioPath))
	assert.Empty(t, f.clipboard.texts())
}

func TestSessionRemovedDuringTranscription(t *testing.T) {
	f := setup(t)
	f.engine.gate = make(chan struct{})

	release := sync.OnceFunc(func() { close(f.engine.gate) })
	t.Cleanup(release)

	f.record(t, 3*time.Second)

	sess, err := f.rec.Stop()
	require.NoError(t, err)
	assert.Equal(t, recording.StatusProcessing, f.rec.Status())

	require.NoError(t, f.rec.Ledger().Save(&store.SessionIndex{
		Sessions: []store.Session{},
	}))

	release()

	ev := f.event(t)
	require.Equal(t, EventError, ev.Kind)
	assert.Equal(t, sess.ID, ev.SessionID)
	assert.Nil(t, ev.Session)
	assert.Contains(t, ev.Message, sess.ID)
	assert.Equal(t, recording.StatusIdle, f.rec.Status())

	select {
	case extra := <-f.rec.Events():
		t.Fatalf("unexpected second event: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopEmitsOneEvent(t *testing.T) {
	f := setup(t)
	f.record(t, time.Second)

	_, err := f.rec.Stop()
	require.NoError(t, err)

	assert.Equal(t, EventComplete, f.event(t).Kind)

	select {
	case extra := <-f.rec.Events():
		t.Fatalf("unexpected second event: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEmptyTranscript(t *testing.T) {
	f := setup(t)
	f.engine.text = ""
	f.record(t, time.Second)

	_, err := f.rec.Stop()
	require.NoError(t, err)

	ev := f.event(t)
	require.Equal(t, EventComplete, ev.Kind)
	assert.Equal(t, "No transcript", ev.Session.Preview)
	assert.False(t, ev.Session.ClipboardCopied)
	assert.False(t, ev.Session.HasStats())
	assert.Empty(t, f.clipboard.texts())

	err = f.rec.CopyToClipboard(ev.SessionID)
	require.ErrorIs(t, err, ErrNoTranscript)
}

func TestClipboardFailureIsNotFatal(t *testing.T) {
	f := setup(t)
	f.clipboard.err = errors.New("no display")
	f.record(t, time.Second)

	_, err := f.rec.Stop()
	require.NoError(t, err)

	ev := f.event(t)
	require.Equal(t, EventComplete, ev.Kind)
	assert.False(t, ev.Session.ClipboardCopied)
	assert.True(t, ev.Session.HasStats())
}

func TestZeroDurationSkipsStats(t *testing.T) {
	f := setup(t)
	f.record(t, 0)

	_, err := f.rec.Stop()
	require.NoError(t, err)

	ev := f.event(t)
	require.Equal(t, EventComplete, ev.Kind)
	assert.False(t, ev.Session.HasStats())
}

func TestRetranscribe(t *testing.T) {
	f := setup(t)
	f.record(t, 4*time.Second)

	sess, err := f.rec.Stop()
	require.NoError(t, err)
	f.event(t)

	f.engine.text = "Buy oat milk"

	text, err := f.rec.Retranscribe(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", text)

	stored, err := f.rec.Ledger().Find(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", stored.Preview)
	assert.Equal(t, "text/"+sess.ID+".txt", stored.TranscriptPath)

	saved, err := f.rec.Transcript(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", saved)

	require.NoError(t, f.rec.CopyToClipboard(sess.ID))
	assert.Equal(t, "Buy oat milk", f.clipboard.texts()[1])
}

func TestRetranscribeErrors(t *testing.T) {
	f := setup(t)

	_, err := f.rec.Retranscribe(context.Background(), "2020-01-01_00-00-00")
	require.ErrorIs(t, err, store.ErrNotFound)

	f.record(t, time.Second)

	sess, err := f.rec.Stop()
	require.NoError(t, err)
	f.event(t)

	require.NoError(t, os.Remove(f.paths.Abs(sess.AudioPath)))

	_, err = f.rec.Retranscribe(context.Background(), sess.ID)
	require.ErrorIs(t, err, ErrAudioMissing)

	f.engine.mu.Lock()
	defer f.engine.mu.Unlock()
	assert.Equal(t, 1, f.engine.calls)
}

func TestUniqueIDsForSameSecond(t *testing.T) {
	f := setup(t)

	ids := make([]string, 0, 2)

	for range 2 {
		f.record(t, 0)

		sess, err := f.rec.Stop()
		require.NoError(t, err)
		f.event(t)

		ids = append(ids, sess.ID)
	}

	assert.Equal(t, []string{"2024-03-01_10-00-00", "2024-03-01_10-00-00-2"}, ids)
}

func TestEstimate(t *testing.T) {
	f := setup(t)

	require.NoError(t, testutil.CopyFile(
		filepath.Join("testdata", "sessions.json"),
		f.paths.LedgerFilePath(),
	))

	est, ok, err := f.rec.Estimate(60)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, stats.Estimate{
		Confidence:       stats.ConfidenceLow,
		EstimatedSeconds: 30,
		Samples:          12,
	}, est)
}

func TestEstimateWithoutHistory(t *testing.T) {
	f := setup(t)

	_, ok, err := f.rec.Estimate(60)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExport(t *testing.T) {
	f := setup(t)
	notes := filepath.Join(t.TempDir(), "notes")

	f.rec.loadConfig = func() (*config.Config, error) {
		return &config.Config{ModelPath: model, VoiceNotesDir: notes}, nil
	}

	f.record(t, 65*time.Second)

	sess, err := f.rec.Stop()
	require.NoError(t, err)
	f.event(t)

	out, err := f.rec.Export(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(notes, sess.ID+".md"), out)

	b, err := os.ReadFile(out)
	require.NoError(t, err)

	note := string(b)
	assert.Contains(t, note, "# Voice note "+sess.ID+"\n")
	assert.Contains(t, note, "- Duration: 01:05\n")
	assert.Contains(t, note, "- Model: `ggml-base.bin`\n")
	assert.Contains(t, note, "\n---\n\nBuy milk and call the plumber\n")
}

func TestExportWithoutNotesDir(t *testing.T) {
	f := setup(t)

	_, err := f.rec.Export("2024-03-01_10-00-00")
	require.ErrorIs(t, err, ErrNotesDirUnset)
}
