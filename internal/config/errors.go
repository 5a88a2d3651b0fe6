package config

import "github.com/thoughtcast/thoughtcast/internal/apperr"

const exampleConfig = `{
  "whisperPath": "/path/to/whisper.cpp/main",
  "modelPath": "/path/to/whisper.cpp/models/ggml-base.en.bin"
}`

var (
	ErrConfigMissing = &apperr.Error{
		Message: "config file not found at %s: run 'thoughtcast init' or create it with the following content:\n" + exampleConfig,
	}

	ErrConfigInvalid = &apperr.Error{
		Message: "config file %s is invalid",
	}

	errMissingField = &apperr.Error{
		Message: "%s must be set",
	}

	errUnknownBackend = &apperr.Error{
		Message: "unknown capture backend: %s (must be portaudio or command)",
	}

	errUnknownFormat = &apperr.Error{
		Message: "unknown sample format: %s (must be f32, s16, or u16)",
	}

	errMissingCaptureCmd = &apperr.Error{
		Message: "the command capture backend requires capture.command to be set",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing config file failed",
	}

	errInvalidDateRange = &apperr.Error{
		Message: "the start time must be earlier than the end time",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "please provide a valid time period: %s",
	}

	errInvalidDate = &apperr.Error{
		Message: "unable to parse date: %s",
	}
)
