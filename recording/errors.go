package recording

import "github.com/thoughtcast/thoughtcast/internal/apperr"

var (
	ErrAlreadyActive = &apperr.Error{
		Message: "a recording is already in progress",
	}

	ErrNotActive = &apperr.Error{
		Message: "no recording in progress",
	}

	ErrNotRecording = &apperr.Error{
		Message: "the recording is not running",
	}

	ErrNotPaused = &apperr.Error{
		Message: "the recording is not paused",
	}

	ErrNoDevice = &apperr.Error{
		Message: "no microphone detected: please check your audio settings",
	}

	ErrUnsupportedFormat = &apperr.Error{
		Message: "unsupported sample format: %s",
	}

	ErrStreamFailed = &apperr.Error{
		Message: "audio input stream failed",
	}

	errWriteWAV = &apperr.Error{
		Message: "writing WAV file %s failed",
	}

	errReadWAV = &apperr.Error{
		Message: "reading WAV file %s failed",
	}
)
