package transcribe

import "github.com/thoughtcast/thoughtcast/internal/apperr"

var (
	ErrToolMissing = &apperr.Error{
		Message: "whisper.cpp is not set up (nothing found at %s): please see the README for setup instructions",
	}

	ErrModelMissing = &apperr.Error{
		Message: "whisper model file %s is missing: please download a model, see the README",
	}

	ErrProcessFailed = &apperr.Error{
		Message: "whisper transcription failed: %s",
	}

	ErrOutputMissing = &apperr.Error{
		Message: "whisper did not create a transcript file at %s",
	}

	ErrTranscriptNotFound = &apperr.Error{
		Message: "transcript file not found: %s",
	}

	errSaveTranscript = &apperr.Error{
		Message: "failed to write transcript %s",
	}

	errReadOutput = &apperr.Error{
		Message: "failed to read transcript file %s",
	}
)
