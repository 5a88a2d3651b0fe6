package config

import (
	"slices"
	"strings"
)

var (
	backends = []string{BackendPortAudio, BackendCommand}
	formats  = []string{FormatF32, FormatS16, FormatU16}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.WhisperPath) == "" {
		return errMissingField.Fmt(keyWhisperPath)
	}

	if strings.TrimSpace(c.ModelPath) == "" {
		return errMissingField.Fmt(keyModelPath)
	}

	return c.Capture.Validate()
}

// Validate checks the capture backend settings.
func (cc *CaptureConfig) Validate() error {
	if !slices.Contains(backends, cc.Backend) {
		return errUnknownBackend.Fmt(cc.Backend)
	}

	if !slices.Contains(formats, cc.Format) {
		return errUnknownFormat.Fmt(cc.Format)
	}

	if cc.Backend == BackendCommand && strings.TrimSpace(cc.Command) == "" {
		return errMissingCaptureCmd
	}

	return nil
}
