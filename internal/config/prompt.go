package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
▀█▀ █ █ █▀█ █ █ █▀▀ █ █ ▀█▀ █▀▀ ▄▀█ █▀ ▀█▀
 █  █▀█ █▄█ █▄█ █▄█ █▀█  █  █▄▄ █▀█ ▄█  █ `

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	WhisperPath   string
	ModelPath     string
	VoiceNotesDir string
	Backend       string
	CaptureCmd    string
	Format        string
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts and writes them to configPath. Nothing is asked when
// the file already exists.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser(c)
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		applyPromptOptions(c, opts)

		if err := c.Validate(); err != nil {
			return err
		}

		return c.Save(configPath)
	}
}

// promptUser handles the interactive configuration process.
func promptUser(c *Config) (PromptOptions, error) {
	opts := PromptOptions{
		Backend: c.Capture.Backend,
		Format:  c.Capture.Format,
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure ThoughtCast for the first time.
Point it at a whisper.cpp binary and a downloaded ggml model.
Edit the config file with 'thoughtcast edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Path to the whisper.cpp executable").
				Validate(fileExists).
				Value(&opts.WhisperPath),
			huh.NewInput().
				Title("Path to the whisper model").
				Validate(fileExists).
				Value(&opts.ModelPath),
			huh.NewInput().
				Title("Notes directory for exported transcripts (optional)").
				Value(&opts.VoiceNotesDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Audio capture backend").
				Options(
					huh.NewOption("PortAudio default input", BackendPortAudio),
					huh.NewOption("External command (arecord, ffmpeg, ...)", BackendCommand),
				).
				Value(&opts.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Capture command writing raw mono 44.1kHz PCM to stdout").
				Placeholder("arecord -q -t raw -f S16_LE -c 1 -r 44100").
				Value(&opts.CaptureCmd),
			huh.NewSelect[string]().
				Title("Sample format produced by the command").
				Options(
					huh.NewOption("16-bit signed", FormatS16),
					huh.NewOption("32-bit float", FormatF32),
					huh.NewOption("16-bit unsigned", FormatU16),
				).
				Value(&opts.Format),
		).WithHideFunc(func() bool {
			return opts.Backend != BackendCommand
		}),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

func fileExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s: no such file", path)
	}

	return nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.WhisperPath = opts.WhisperPath
	c.ModelPath = opts.ModelPath
	c.VoiceNotesDir = opts.VoiceNotesDir
	c.Capture.Backend = opts.Backend
	c.Capture.Format = opts.Format

	if opts.Backend == BackendCommand {
		c.Capture.Command = opts.CaptureCmd
	} else {
		c.Capture.Command = ""
		c.Capture.Format = FormatF32
	}
}
