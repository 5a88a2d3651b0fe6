// Package config loads and validates the thoughtcast configuration file
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
)

const Version = "v0.3.0"

// Capture backends.
const (
	BackendPortAudio = "portaudio"
	BackendCommand   = "command"
)

// Raw sample encodings understood by the capture layer.
const (
	FormatF32 = "f32"
	FormatS16 = "s16"
	FormatU16 = "u16"
)

type (
	// Config holds all configuration settings.
	Config struct {
		WhisperPath   string        `json:"whisperPath"             mapstructure:"whisperPath"`
		ModelPath     string        `json:"modelPath"               mapstructure:"modelPath"`
		VoiceNotesDir string        `json:"voiceNotesDir,omitempty" mapstructure:"voiceNotesDir"`
		Capture       CaptureConfig `json:"capture"                 mapstructure:"capture"`
		PathToConfig  string        `json:"-"                       mapstructure:"-"`
	}

	// CaptureConfig selects the audio input backend.
	CaptureConfig struct {
		Backend string `json:"backend"           mapstructure:"backend"`
		Command string `json:"command,omitempty" mapstructure:"command"`
		Format  string `json:"format"            mapstructure:"format"`
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{
		Capture: CaptureConfig{
			Backend: BackendPortAudio,
			Format:  FormatF32,
		},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Load reads the configuration file at path and validates it.
func Load(path string) (*Config, error) {
	return New(WithViperConfig(path), WithValidation())
}

// Save writes the configuration to its file as indented JSON.
func (c *Config) Save(path string) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errWriteConfig.Wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return errWriteConfig.Wrap(err)
	}

	err = os.WriteFile(path, append(b, '\n'), osutil.FilePermission)
	if err != nil {
		return errWriteConfig.Wrap(err)
	}

	c.PathToConfig = path

	return nil
}

// String returns a short human readable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(
		"whisper: %s, model: %s, capture: %s (%s)",
		c.WhisperPath,
		c.ModelPath,
		c.Capture.Backend,
		c.Capture.Format,
	)
}
