// Package recording implements the recording lifecycle, microphone capture
// and the helpers that turn captured samples into levels and WAV files
package recording

import (
	"fmt"
	"sync"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/timeutil"
)

// Status is the lifecycle state of a recording session.
type Status int

const (
	StatusIdle Status = iota
	StatusRecording
	StatusPaused
	// StatusProcessing is held from stop until transcription finishes.
	StatusProcessing
)

// DefaultDrain bounds how long Stop waits for the capture loop to wind down.
const DefaultDrain = 200 * time.Millisecond

var statusNames = map[Status]string{
	StatusIdle:       "idle",
	StatusRecording:  "recording",
	StatusPaused:     "paused",
	StatusProcessing: "processing",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for k, v := range statusNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}

	return fmt.Errorf("unknown recording status: %q", b)
}

// Snapshot is what a stopped recording hands over to persistence.
type Snapshot struct {
	StartedAt time.Time
	StoppedAt time.Time
	Samples   []float32
	// Duration is the active recording time in seconds, pauses excluded.
	Duration float64
}

// Clock returns the current time.
type Clock func() time.Time

// Option configures a State.
type Option func(*State)

// WithClock replaces the wall clock used for duration accounting.
func WithClock(c Clock) Option {
	return func(s *State) {
		s.now = c
	}
}

// State is the recording state machine together with the sample buffer it
// guards. The zero value is not usable; create one with NewState.
type State struct {
	startTime  time.Time
	pauseStart time.Time
	now        Clock
	buf        *Buffer
	loopDone   chan struct{}
	paused     time.Duration
	gen        uint64
	status     Status
	mu         sync.Mutex
}

// NewState returns an idle recording state.
func NewState(opts ...Option) *State {
	s := &State{
		now: time.Now,
		buf: &Buffer{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start begins a new session. It fails with ErrAlreadyActive unless the
// state is idle.
func (s *State) Start() error {
	_, err := s.start()
	return err
}

func (s *State) start() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusIdle {
		return 0, ErrAlreadyActive
	}

	s.buf.Reset()

	s.status = StatusRecording
	s.startTime = s.now()
	s.pauseStart = time.Time{}
	s.paused = 0
	s.loopDone = nil
	s.gen++

	return s.gen, nil
}

// Pause suspends sample collection.
func (s *State) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRecording {
		return ErrNotRecording
	}

	s.status = StatusPaused
	s.pauseStart = s.now()

	return nil
}

// Resume continues a paused session and folds the pause into the paused
// total.
func (s *State) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPaused {
		return ErrNotPaused
	}

	s.foldPause(s.now())
	s.status = StatusRecording

	return nil
}

// Cancel discards the active session without persisting anything.
func (s *State) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActive() {
		return ErrNotActive
	}

	s.buf.Reset()
	s.reset()

	return nil
}

// Stop ends the active session and moves the state to processing. It waits
// at most drain for the capture loop to finish before taking the samples.
// The state stays in processing until Finish is called.
func (s *State) Stop(drain time.Duration) (*Snapshot, error) {
	s.mu.Lock()

	if !s.isActive() {
		s.mu.Unlock()
		return nil, ErrNotActive
	}

	now := s.now()

	if s.status == StatusPaused {
		s.foldPause(now)
	}

	snap := &Snapshot{
		StartedAt: s.startTime,
		StoppedAt: now,
		Duration:  timeutil.ToSeconds(now.Sub(s.startTime) - s.paused),
	}

	if snap.Duration < 0 {
		snap.Duration = 0
	}

	s.status = StatusProcessing
	done := s.loopDone

	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(drain):
		}
	}

	snap.Samples = s.buf.Drain()

	return snap, nil
}

// Finish returns a processing state to idle. Calling it in any other state
// is a no-op.
func (s *State) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusProcessing {
		return
	}

	s.reset()
}

// Status reports the current lifecycle state.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// IsRecording reports whether samples are currently being collected.
func (s *State) IsRecording() bool {
	return s.Status() == StatusRecording
}

// IsActive reports whether a session is recording or paused.
func (s *State) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isActive()
}

// Duration returns the active recording time in seconds, or zero when no
// session is active.
func (s *State) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActive() {
		return 0
	}

	now := s.now()
	paused := s.paused

	if s.status == StatusPaused && !s.pauseStart.IsZero() {
		paused += now.Sub(s.pauseStart)
	}

	d := timeutil.ToSeconds(now.Sub(s.startTime) - paused)
	if d < 0 {
		return 0
	}

	return d
}

// Buffered reports the number of samples collected so far.
func (s *State) Buffered() int {
	return s.buf.Len()
}

// appendFrame stores a frame delivered by the capture loop of generation
// gen. Frames are dropped while paused or once the loop's session is over.
func (s *State) appendFrame(gen uint64, frame []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.status != StatusRecording {
		return
	}

	s.buf.Append(frame)
}

// owns reports whether the capture loop of generation gen should keep
// running.
func (s *State) owns(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen == gen && s.isActive()
}

// attachLoop registers the completion channel of the capture loop serving
// generation gen.
func (s *State) attachLoop(gen uint64, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen == gen {
		s.loopDone = done
	}
}

func (s *State) isActive() bool {
	return s.status == StatusRecording || s.status == StatusPaused
}

func (s *State) foldPause(now time.Time) {
	if !s.pauseStart.IsZero() {
		s.paused += now.Sub(s.pauseStart)
		s.pauseStart = time.Time{}
	}
}

func (s *State) reset() {
	s.status = StatusIdle
	s.startTime = time.Time{}
	s.pauseStart = time.Time{}
	s.paused = 0
	s.loopDone = nil
}
