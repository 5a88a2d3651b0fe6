package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Backend    string
	CaptureCmd string
	Format     string
	NotesDir   string
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Backend:    ctx.String("backend"),
			CaptureCmd: ctx.String("capture-cmd"),
			Format:     ctx.String("format"),
			NotesDir:   ctx.String("notes-dir"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config. Empty values leave the
// file settings untouched.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.CaptureCmd != "" {
		c.Capture.Command = opts.CaptureCmd

		if opts.Backend == "" {
			c.Capture.Backend = BackendCommand
		}
	}

	if opts.Backend != "" {
		c.Capture.Backend = opts.Backend
	}

	if opts.Format != "" {
		c.Capture.Format = opts.Format
	}

	if opts.NotesDir != "" {
		c.VoiceNotesDir = opts.NotesDir
	}
}
