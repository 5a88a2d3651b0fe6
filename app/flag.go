package app

import (
	"github.com/urfave/cli/v2"

	"github.com/thoughtcast/thoughtcast/internal/pathutil"
)

var (
	dirFlag = &cli.StringFlag{
		Name:    "dir",
		Usage:   "Storage directory for recordings, transcripts and config.json (default: <Documents>/ThoughtCast)",
		EnvVars: []string{pathutil.EnvStorageDir},
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Write debug messages to the log file",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	lightThemeFlag = &cli.BoolFlag{
		Name:  "light-theme",
		Usage: "Use colours suited to light terminal backgrounds",
	}

	backendFlag = &cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "Audio input backend: portaudio or command",
	}

	captureCmdFlag = &cli.StringFlag{
		Name:    "capture-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Command streaming raw mono 44.1kHz PCM to stdout (e.g. 'arecord -q -t raw -f FLOAT_LE -c 1 -r 44100')",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Sample encoding of the input device: f32, s16 or u16",
	}

	noClipboardFlag = &cli.BoolFlag{
		Name:  "no-clipboard",
		Usage: "Do not copy the transcript to the clipboard",
	}

	notifyFlag = &cli.BoolFlag{
		Name:    "notify",
		Aliases: []string{"n"},
		Usage:   "Show a desktop notification when transcription finishes",
	}

	notesDirFlag = &cli.StringFlag{
		Name:  "notes-dir",
		Usage: "Directory receiving exported notes (overrides voiceNotesDir)",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Only include sessions from: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time",
	}

	startFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Only include sessions recorded after this date (e.g. '2024-05-01' or '3 days ago')",
	}

	endFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "Only include sessions recorded before this date",
	}

	limitFlag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "Maximum number of sessions to list",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print sessions as JSON",
	}
)
