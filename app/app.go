package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/thoughtcast/thoughtcast/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the thoughtcast app instance.
func Get() *cli.App {
	thoughtcastApp := &cli.App{
		Name: "thoughtcast",
		Usage: `
		ThoughtCast records voice memos from the command-line and transcribes
		them locally with whisper.cpp. Transcripts are copied to the clipboard
		and kept alongside the audio in a session ledger.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "record",
				Aliases: []string{"r"},
				Usage:   "Record a voice memo and transcribe it",
				Flags: []cli.Flag{
					backendFlag,
					captureCmdFlag,
					formatFlag,
					noClipboardFlag,
					notifyFlag,
				},
				Action: recordAction,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List recorded sessions",
				Flags: []cli.Flag{
					periodFlag,
					startFlag,
					endFlag,
					limitFlag,
					jsonFlag,
				},
				Action: listAction,
			},
			{
				Name:      "transcript",
				Usage:     "Print the transcript of a session",
				ArgsUsage: "<session-id>",
				Action:    transcriptAction,
			},
			{
				Name:      "copy",
				Usage:     "Copy the transcript of a session to the clipboard",
				ArgsUsage: "<session-id>",
				Action:    copyAction,
			},
			{
				Name:      "retranscribe",
				Usage:     "Transcribe a session again with the current configuration",
				ArgsUsage: "<session-id>",
				Action:    retranscribeAction,
			},
			{
				Name:      "estimate",
				Usage:     "Estimate how long transcribing audio of the given length takes",
				ArgsUsage: "<seconds>",
				Action:    estimateAction,
			},
			{
				Name:  "stats",
				Usage: "Show transcription speed per model",
				Flags: []cli.Flag{
					periodFlag,
					startFlag,
					endFlag,
				},
				Action: statsAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of a recording in progress",
				Action: statusAction,
			},
			{
				Name:      "play",
				Usage:     "Play back the recording of a session",
				ArgsUsage: "<session-id>",
				Action:    playAction,
			},
			{
				Name:      "export",
				Usage:     "Write a session transcript as a Markdown note",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					notesDirFlag,
				},
				Action: exportAction,
			},
			{
				Name:   "init",
				Usage:  "Create the configuration file interactively",
				Action: initAction,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration",
				Action: configAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			dirFlag,
			debugFlag,
			noColorFlag,
			lightThemeFlag,
		},
		Before: beforeAction,
		After:  afterAction,
	}

	return thoughtcastApp
}
