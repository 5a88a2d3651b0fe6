package recorder

import (
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
)

const appName = "ThoughtCast"

// Notify shows a desktop notification describing ev. Failures are logged
// and otherwise ignored.
func Notify(ev Event, logger *slog.Logger) {
	title := appName + ": transcription complete"
	msg := ""

	switch ev.Kind {
	case EventComplete:
		if ev.Session != nil {
			msg = ev.Session.Preview
		}
	case EventError:
		title = appName + ": transcription failed"
		msg = ev.Message
	}

	// pathToIcon is empty when no icon is installed
	pathToIcon, _ := xdg.SearchDataFile(filepath.Join("thoughtcast", "icon.png"))

	err := beeep.Notify(title, msg, pathToIcon)
	if err != nil {
		logger.Warn("unable to display notification", slog.Any("error", err))
	}
}
