package recording

import (
	"encoding/binary"
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
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeDevice hands control of frame delivery to the test.
type fakeDevice struct {
	onFrame  func([]float32)
	onError  func(error)
	started  chan struct{}
	startErr error
	closed   bool
	mu       sync.Mutex
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{started: make(chan struct{})}
}

func (d *fakeDevice) Start(onFrame func([]float32), onError func(error)) error {
	if d.startErr != nil {
		return d.startErr
	}

	d.mu.Lock()
	d.onFrame = onFrame
	d.onError = onError
	d.mu.Unlock()

	close(d.started)

	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	return nil
}

func (d *fakeDevice) emit(frame []float32) {
	d.mu.Lock()
	fn := d.onFrame
	d.mu.Unlock()

	fn(frame)
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}

func opener(d Device, err error) DeviceOpener {
	return func() (Device, error) {
		return d, err
	}
}

func waitStarted(t *testing.T, d *fakeDevice) {
	t.Helper()

	select {
	case <-d.started:
	case <-time.After(2 * time.Second):
		t.Fatal("device was never started")
	}
}

func TestCaptureCollectsOnlyWhileRecording(t *testing.T) {
	dev := newFakeDevice()
	c := NewCapture(opener(dev, nil), discard)
	s := NewState()

	require.NoError(t, c.Start(s))
	waitStarted(t, dev)

	dev.emit([]float32{0.1, 0.2})

	require.NoError(t, s.Pause())
	dev.emit([]float32{0.3})

	require.NoError(t, s.Resume())
	dev.emit([]float32{0.4})

	snap, err := s.Stop(time.Second)
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.4}, snap.Samples)
	assert.True(t, dev.isClosed())
}

func TestCaptureRejectsSecondStart(t *testing.T) {
	dev := newFakeDevice()
	c := NewCapture(opener(dev, nil), discard)
	s := NewState()

	require.NoError(t, c.Start(s))
	assert.ErrorIs(t, c.Start(s), ErrAlreadyActive)

	require.NoError(t, s.Cancel())
}

func TestCaptureDeviceErrorLeavesSessionActive(t *testing.T) {
	c := NewCapture(opener(nil, ErrNoDevice), discard)
	s := NewState()

	require.NoError(t, c.Start(s))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StatusRecording, s.Status())

	snap, err := s.Stop(time.Second)
	require.NoError(t, err)
	assert.Empty(t, snap.Samples)
}

func TestCaptureStreamErrorEndsLoop(t *testing.T) {
	dev := newFakeDevice()
	c := NewCapture(opener(dev, nil), discard)
	s := NewState()

	require.NoError(t, c.Start(s))
	waitStarted(t, dev)

	dev.onError(errors.New("device unplugged"))

	assert.Eventually(t, dev.isClosed, 2*time.Second, 10*time.Millisecond)
	assert.True(t, s.IsActive())

	require.NoError(t, s.Cancel())
}

func TestCommandDevice(t *testing.T) {
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("cat is not available")
	}

	raw := make([]byte, 2*3000)
	for i := range 3000 {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(8192)))
	}

	path := filepath.Join(t.TempDir(), "input.raw")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	c := NewCapture(CommandOpener("cat '"+path+"'", FormatS16), discard)
	s := NewState()

	require.NoError(t, c.Start(s))

	assert.Eventually(t, func() bool {
		return s.Buffered() == 3000
	}, 2*time.Second, 10*time.Millisecond)

	snap, err := s.Stop(time.Second)
	require.NoError(t, err)

	require.Len(t, snap.Samples, 3000)
	assert.InDelta(t, 0.25, snap.Samples[0], 1e-6)
}

func TestCommandOpenerErrors(t *testing.T) {
	_, err := CommandOpener("", FormatS16)()
	assert.ErrorIs(t, err, ErrNoDevice)

	_, err = CommandOpener("arecord", Format("s8"))()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	dev, err := CommandOpener("/nonexistent/capture-tool", FormatS16)()
	require.NoError(t, err)

	err = dev.Start(func([]float32) {}, func(error) {})
	assert.ErrorIs(t, err, ErrNoDevice)
	assert.NoError(t, dev.Close())
}
