package recorder

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/thoughtcast/thoughtcast/internal/timeutil"
	"github.com/thoughtcast/thoughtcast/recording"
)

var meterBlocks = []rune("▁▂▃▄▅▆▇█")

// renderLevels draws one block per level, oldest on the left.
func renderLevels(levels []float32) string {
	if len(levels) == 0 {
		return strings.Repeat(string(meterBlocks[0]), recording.LevelCount)
	}

	var b strings.Builder

	top := len(meterBlocks) - 1

	for _, l := range levels {
		i := int(l*float32(top) + 0.5)
		i = max(0, min(i, top))
		b.WriteRune(meterBlocks[i])
	}

	return b.String()
}

func (m *Model) recordingView() string {
	var s strings.Builder

	if m.rec.Status() == recording.StatusPaused {
		s.WriteString(defaultStyles.Paused.SetString("[Paused]").String())
	} else {
		s.WriteString(defaultStyles.Recording.SetString("● Recording").String())
	}

	s.WriteString("\n\n")
	s.WriteString(
		defaultStyles.Main.SetString(timeutil.FormatSeconds(m.rec.Duration())).String(),
	)
	s.WriteString("  ")
	s.WriteString(defaultStyles.Meter.SetString(renderLevels(m.rec.Levels())).String())
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePause,
		defaultKeymap.stop,
		defaultKeymap.cancel,
	}))

	return s.String()
}

func (m *Model) transcribingView() string {
	var s strings.Builder

	s.WriteString(defaultStyles.Main.SetString("Transcribing...").String())
	s.WriteString(
		defaultStyles.Hint.SetString(
			fmt.Sprintf(" %s of audio", timeutil.FormatSeconds(m.session.Duration)),
		).String(),
	)

	elapsed := time.Since(m.started).Seconds()

	s.WriteString("\n\n")

	if m.estimated {
		s.WriteString(m.progress.View())
		s.WriteString("\n")
		s.WriteString(defaultStyles.Secondary.SetString(
			fmt.Sprintf(
				"%s / ~%s (%s confidence)",
				timeutil.FormatSeconds(elapsed),
				timeutil.FormatSeconds(m.estimate.EstimatedSeconds),
				m.estimate.Confidence,
			),
		).String())
	} else {
		s.WriteString(defaultStyles.Secondary.SetString(
			"elapsed " + timeutil.FormatSeconds(elapsed),
		).String())
	}

	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.quit,
	}))

	return s.String()
}

func (m *Model) View() string {
	if m.result != nil || m.discarded || m.err != nil {
		return ""
	}

	if m.session != nil {
		return defaultStyles.Base.Render(m.transcribingView())
	}

	return defaultStyles.Base.Render(m.recordingView())
}
