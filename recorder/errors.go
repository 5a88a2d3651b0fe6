package recorder

import "github.com/thoughtcast/thoughtcast/internal/apperr"

var (
	ErrNoTranscript = &apperr.Error{
		Message: "No transcript available for this session",
	}

	ErrAudioMissing = &apperr.Error{
		Message: "audio file not found: %s",
	}

	ErrNotesDirUnset = &apperr.Error{
		Message: "voiceNotesDir is not set in %s",
	}

	errClipboardUnsupported = &apperr.Error{
		Message: "no clipboard utility available on this system",
	}

	errClipboardDisabled = &apperr.Error{
		Message: "clipboard disabled",
	}
)
