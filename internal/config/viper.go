package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyWhisperPath    = "whisperPath"
	keyModelPath      = "modelPath"
	keyVoiceNotesDir  = "voiceNotesDir"
	keyCaptureBackend = "capture.backend"
	keyCaptureCommand = "capture.command"
	keyCaptureFormat  = "capture.format"
)

// WithViperConfig returns an Option that loads configuration from the JSON
// file at configPath. Values may be overridden with THOUGHTCAST_* environment
// variables (e.g. THOUGHTCAST_CAPTURE_BACKEND).
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if errors.Is(err, os.ErrNotExist) {
			return ErrConfigMissing.Fmt(configPath)
		}

		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("json")
		v.SetEnvPrefix("thoughtcast")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setupViper(v, c)

		err = v.ReadInConfig()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return ErrConfigMissing.Fmt(configPath)
			}

			return ErrConfigInvalid.Fmt(configPath).Wrap(err)
		}

		if err := v.Unmarshal(c); err != nil {
			return ErrConfigInvalid.Fmt(configPath).Wrap(err)
		}

		c.PathToConfig = configPath

		return nil
	}
}

// setupViper registers every known key so that environment overrides apply
// even when the file omits them.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyWhisperPath, c.WhisperPath)
	v.SetDefault(keyModelPath, c.ModelPath)
	v.SetDefault(keyVoiceNotesDir, c.VoiceNotesDir)
	v.SetDefault(keyCaptureBackend, c.Capture.Backend)
	v.SetDefault(keyCaptureCommand, c.Capture.Command)
	v.SetDefault(keyCaptureFormat, c.Capture.Format)
}

// WithValidation returns an Option that validates the configuration
// assembled by the preceding options.
func WithValidation() Option {
	return func(c *Config) error {
		if err := c.Validate(); err != nil {
			return ErrConfigInvalid.Fmt(c.PathToConfig).Wrap(err)
		}

		return nil
	}
}

// Table returns the effective configuration as table rows with a header.
func (c *Config) Table() [][]string {
	return [][]string{
		{"Key", "Value"},
		{keyWhisperPath, c.WhisperPath},
		{keyModelPath, c.ModelPath},
		{keyVoiceNotesDir, c.VoiceNotesDir},
		{keyCaptureBackend, c.Capture.Backend},
		{keyCaptureCommand, c.Capture.Command},
		{keyCaptureFormat, c.Capture.Format},
	}
}
