package recorder

import "github.com/thoughtcast/thoughtcast/store"

// EventKind distinguishes the outcome of a background transcription.
type EventKind int

const (
	EventComplete EventKind = iota
	EventError
)

func (k EventKind) String() string {
	if k == EventComplete {
		return "transcription-complete"
	}

	return "transcription-error"
}

// Event is emitted exactly once for every stopped recording.
type Event struct {
	// Session is the updated session of a completed transcription.
	Session   *store.Session
	SessionID string
	Message   string
	Kind      EventKind
}
