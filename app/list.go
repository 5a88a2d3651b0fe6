package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/thoughtcast/thoughtcast/internal/config"
	"github.com/thoughtcast/thoughtcast/internal/timeutil"
	"github.com/thoughtcast/thoughtcast/internal/ui"
	"github.com/thoughtcast/thoughtcast/store"
)

const (
	noSessionsMsg  = "No sessions found for the specified time range"
	failedPrefix   = "Transcription failed"
	previewColumns = 60
)

// filterSessions keeps the sessions recorded within the filter's range, up
// to its limit.
func filterSessions(
	sessions []store.Session,
	f *config.FilterConfig,
) []store.Session {
	out := make([]store.Session, 0, len(sessions))

	for i := range sessions {
		if !f.Contains(sessions[i].Time()) {
			continue
		}

		out = append(out, sessions[i])

		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}

	return out
}

func sessionStatus(sess *store.Session) string {
	switch {
	case sess.Transcribed():
		return ui.Green("transcribed")
	case strings.HasPrefix(sess.Preview, failedPrefix):
		return ui.Red("failed")
	default:
		return ui.Blue("pending")
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")

	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(w io.Writer, sessions []store.Session) {
	tableBody := make([][]string, len(sessions))

	for i := range sessions {
		sess := &sessions[i]

		row := []string{
			fmt.Sprintf("%d", i+1),
			sess.ID,
			sess.Time().Local().Format("Jan 02, 2006 03:04 PM"),
			timeutil.FormatSeconds(sess.Duration),
			sessionStatus(sess),
			truncate(sess.Preview, previewColumns),
		}

		tableBody[i] = row
	}

	tableBody = append([][]string{
		{"#", "ID", "RECORDED", "DURATION", "STATUS", "PREVIEW"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}
