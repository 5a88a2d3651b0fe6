package recording

import (
	"log/slog"
	"time"
)

const pollInterval = 100 * time.Millisecond

// Device is an audio input delivering frames of normalised mono samples.
type Device interface {
	// Start begins delivering frames to onFrame. Asynchronous stream
	// failures are reported through onError.
	Start(onFrame func([]float32), onError func(error)) error
	Close() error
}

// DeviceOpener opens the input device for a new session.
type DeviceOpener func() (Device, error)

// Capture runs the background loop that moves samples from the input device
// into the recording state.
type Capture struct {
	open   DeviceOpener
	logger *slog.Logger
	poll   time.Duration
}

// NewCapture returns a Capture that opens devices with open.
func NewCapture(open DeviceOpener, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}

	return &Capture{
		open:   open,
		logger: logger,
		poll:   pollInterval,
	}
}

// Start starts a new session on state and spawns the capture loop. It fails
// with ErrAlreadyActive if a session is already running. Device errors do
// not fail Start: they are logged by the loop, which then exits while the
// session stays active until it is stopped or cancelled.
func (c *Capture) Start(state *State) error {
	gen, err := state.start()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	state.attachLoop(gen, done)

	go c.run(state, gen, done)

	return nil
}

func (c *Capture) run(state *State, gen uint64, done chan struct{}) {
	defer close(done)

	dev, err := c.open()
	if err != nil {
		c.logger.Error("opening audio input failed", slog.Any("error", err))
		return
	}

	defer func() {
		if cerr := dev.Close(); cerr != nil {
			c.logger.Warn("closing audio input failed", slog.Any("error", cerr))
		}
	}()

	streamErr := make(chan error, 1)

	err = dev.Start(
		func(frame []float32) {
			state.appendFrame(gen, frame)
		},
		func(err error) {
			select {
			case streamErr <- err:
			default:
			}
		},
	)
	if err != nil {
		c.logger.Error("starting audio input failed", slog.Any("error", err))
		return
	}

	c.logger.Debug("capture loop started", slog.Uint64("generation", gen))

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case err := <-streamErr:
			c.logger.Error(
				"audio input stream failed",
				slog.Any("error", ErrStreamFailed.Wrap(err)),
			)

			return
		case <-ticker.C:
			if !state.owns(gen) {
				c.logger.Debug(
					"capture loop finished",
					slog.Uint64("generation", gen),
					slog.Int("samples", state.Buffered()),
				)

				return
			}
		}
	}
}
