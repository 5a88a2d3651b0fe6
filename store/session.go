package store

import (
	"fmt"
	"time"
)

// IDFormat is the layout of session identifiers.
const IDFormat = "2006-01-02_15-04-05"

// PlaceholderPreview marks a session whose transcription has not finished.
const PlaceholderPreview = "Transcribing..."

// Session is a persisted recording and its transcription metadata.
type Session struct {
	ID              string  `json:"id"`
	Timestamp       string  `json:"timestamp"`
	AudioPath       string  `json:"audio_path"`
	Duration        float64 `json:"duration"`
	Preview         string  `json:"preview"`
	TranscriptPath  string  `json:"transcript_path"`
	ClipboardCopied bool    `json:"clipboard_copied"`

	// TranscriptionTimeSeconds and ModelPath are only recorded for
	// successful non-empty transcriptions of audio with a known duration.
	TranscriptionTimeSeconds *float64 `json:"transcription_time_seconds,omitempty"`
	ModelPath                *string  `json:"model_path,omitempty"`
}

// SessionIndex is the on-disk ledger document. Sessions are kept newest
// first.
type SessionIndex struct {
	Sessions []Session `json:"sessions"`
}

// Time parses the session timestamp. Sessions with an unparsable timestamp
// fall back to their identifier, which is derived from the UTC stop time.
func (s *Session) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.Timestamp)
	if err == nil {
		return t
	}

	t, err = time.ParseInLocation(IDFormat, s.ID[:min(len(s.ID), len(IDFormat))], time.UTC)
	if err == nil {
		return t
	}

	return time.Time{}
}

// HasStats reports whether the session carries transcription timing data.
func (s *Session) HasStats() bool {
	return s.TranscriptionTimeSeconds != nil && s.ModelPath != nil
}

// SetStats records how long transcription took and which model was used.
func (s *Session) SetStats(seconds float64, model string) {
	s.TranscriptionTimeSeconds = &seconds
	s.ModelPath = &model
}

// Transcribed reports whether a transcript file has been saved.
func (s *Session) Transcribed() bool {
	return s.TranscriptPath != ""
}

func (s *Session) String() string {
	return fmt.Sprintf("%s (%.1fs): %s", s.ID, s.Duration, s.Preview)
}
