package recorder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/pathutil"
	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/store"
	"github.com/thoughtcast/thoughtcast/transcribe"
)

// Stop ends the current recording, saves its audio and ledger entry and
// starts transcription in the background. The returned session still
// carries the placeholder preview; the outcome arrives on Events.
func (r *Recorder) Stop() (*store.Session, error) {
	snap, err := r.state.Stop(r.drain)
	if err != nil {
		return nil, err
	}

	sess, err := r.persist(snap)
	if err != nil {
		r.state.Finish()
		return nil, err
	}

	r.logger.Info(
		"recording saved",
		slog.String("id", sess.ID),
		slog.Float64("duration", sess.Duration),
		slog.Int("samples", len(snap.Samples)),
	)

	r.wg.Add(1)

	go r.transcribe(*sess)

	return sess, nil
}

func (r *Recorder) persist(snap *recording.Snapshot) (*store.Session, error) {
	stopped := snap.StoppedAt.UTC()

	id, err := r.ledger.NextID(stopped)
	if err != nil {
		return nil, err
	}

	rel := pathutil.AudioRelPath(id)
	abs := r.paths.Abs(rel)

	err = recording.WriteWAV(abs, snap.Samples)
	if err != nil {
		return nil, err
	}

	sess := &store.Session{
		ID:        id,
		Timestamp: stopped.Format(time.RFC3339Nano),
		AudioPath: rel,
		Duration:  snap.Duration,
		Preview:   store.PlaceholderPreview,
	}

	err = r.ledger.Add(sess)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// transcribe is the background half of Stop. It finishes the recording
// state and emits exactly one event whatever happens.
func (r *Recorder) transcribe(sess store.Session) {
	defer r.wg.Done()

	ev := r.runTranscription(sess)

	r.state.Finish()
	r.emit(ev)
}

func (r *Recorder) runTranscription(sess store.Session) Event {
	started := time.Now()

	res, err := r.engine.Transcribe(r.ctx, r.paths.Abs(sess.AudioPath), sess.ID)
	if err != nil {
		r.logger.Error(
			"transcription failed",
			slog.String("id", sess.ID),
			slog.Any("error", err),
		)

		r.markFailed(sess.ID, err)

		return Event{
			Kind:      EventError,
			SessionID: sess.ID,
			Message:   err.Error(),
		}
	}

	elapsed := time.Since(started)

	copied := false

	if res.Text != "" {
		if cerr := r.clipboard.WriteAll(res.Text); cerr != nil {
			r.logger.Warn(
				"copying transcript to clipboard failed",
				slog.String("id", sess.ID),
				slog.Any("error", cerr),
			)
		} else {
			copied = true
		}
	}

	updated, err := r.ledger.Update(sess.ID, func(s *store.Session) {
		s.TranscriptPath = res.TranscriptPath
		s.Preview = transcribe.Preview(res.Text)
		s.ClipboardCopied = copied

		if res.Text != "" && s.Duration > 0 {
			s.SetStats(elapsed.Seconds(), res.Model)
		}
	})
	if err != nil {
		r.logger.Error(
			"updating session failed",
			slog.String("id", sess.ID),
			slog.Any("error", err),
		)

		return Event{
			Kind:      EventError,
			SessionID: sess.ID,
			Message:   err.Error(),
		}
	}

	r.logger.Info(
		"transcription complete",
		slog.String("id", sess.ID),
		slog.Duration("elapsed", elapsed),
		slog.Bool("clipboard", copied),
	)

	return Event{
		Kind:      EventComplete,
		Session:   updated,
		SessionID: sess.ID,
	}
}

func (r *Recorder) markFailed(id string, cause error) {
	_, err := r.ledger.Update(id, func(s *store.Session) {
		s.Preview = fmt.Sprintf("Transcription failed: %s", cause)
	})
	if err != nil {
		r.logger.Warn(
			"recording failure preview failed",
			slog.String("id", id),
			slog.Any("error", err),
		)
	}
}

func (r *Recorder) emit(ev Event) {
	select {
	case r.events <- ev:
	case <-r.ctx.Done():
		r.logger.Debug(
			"dropping event after close",
			slog.String("id", ev.SessionID),
			slog.String("kind", ev.Kind.String()),
		)
	}
}
