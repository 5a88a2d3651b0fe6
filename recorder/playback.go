package recorder

import (
	"context"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/store"
)

const speakerBuffer = 10

// Play plays the recording of session id through the default output
// device. It returns when playback ends or ctx is done.
func (r *Recorder) Play(ctx context.Context, id string) error {
	sess, err := r.ledger.Find(id)
	if err != nil {
		return err
	}

	return play(ctx, r.paths.Abs(sess.AudioPath))
}

func play(ctx context.Context, path string) error {
	stream, format, err := recording.OpenWAV(path)
	if err != nil {
		return err
	}

	defer stream.Close()

	err = speaker.Init(
		format.SampleRate,
		format.SampleRate.N(time.Second/speakerBuffer),
	)
	if err != nil {
		return err
	}

	defer speaker.Close()

	done := make(chan struct{})

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
	case <-ctx.Done():
	}

	speaker.Clear()

	return nil
}

// AudioLength reports the playing time of a session's recording.
func (r *Recorder) AudioLength(sess *store.Session) (time.Duration, error) {
	return recording.WAVDuration(r.paths.Abs(sess.AudioPath))
}
