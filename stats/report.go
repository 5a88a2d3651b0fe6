package stats

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pterm/pterm"

	"github.com/thoughtcast/thoughtcast/internal/timeutil"
	"github.com/thoughtcast/thoughtcast/internal/ui"
)

const (
	barChartChar  = "▇"
	noSessionsMsg = "No transcription statistics recorded yet"
)

// ModelSummary aggregates the measurements of one model.
type ModelSummary struct {
	Model        string
	Count        int
	AudioSeconds float64
	MedianRatio  float64
}

// Summarize groups measurements by model, most used first.
func Summarize(stats []Stat) []ModelSummary {
	byModel := make(map[string][]Stat)

	for _, s := range stats {
		byModel[s.Model] = append(byModel[s.Model], s)
	}

	out := make([]ModelSummary, 0, len(byModel))

	for model, group := range byModel {
		sum := ModelSummary{
			Model: model,
			Count: len(group),
		}

		for _, s := range group {
			sum.AudioSeconds += s.AudioSeconds
		}

		sum.MedianRatio, _ = medianRatio(group)

		out = append(out, sum)
	}

	slices.SortFunc(out, func(a, b ModelSummary) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}

		return strings.Compare(a.Model, b.Model)
	})

	return out
}

// getSummary renders the per-model table.
func getSummary(summaries []ModelSummary) (string, error) {
	data := [][]string{
		{"MODEL", "TRANSCRIPTIONS", "AUDIO", "MEDIAN RATIO", "CONFIDENCE"},
	}

	for _, s := range summaries {
		data = append(data, []string{
			s.Model,
			fmt.Sprintf("%d", s.Count),
			timeutil.FormatSeconds(s.AudioSeconds),
			fmt.Sprintf("%.3f", s.MedianRatio),
			string(ConfidenceFor(s.Count)),
		})
	}

	table := pterm.DefaultTable
	table.Boxed = true

	return table.WithHasHeader().WithData(data).Srender()
}

// getBarChart renders the speed of each model as seconds of transcription
// per minute of audio.
func getBarChart(summaries []ModelSummary) (string, error) {
	header := ui.Blue("\nTranscription seconds per minute of audio")

	bars := make(pterm.Bars, 0, len(summaries))

	for _, s := range summaries {
		bars = append(bars, pterm.Bar{
			Label: shortModel(s.Model),
			Value: timeutil.Round(s.MedianRatio * 60),
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		return "", err
	}

	return header + chart, nil
}

func shortModel(model string) string {
	if i := strings.LastIndexAny(model, `/\`); i >= 0 {
		return model[i+1:]
	}

	return model
}

// Show writes the statistics report to w.
func Show(w io.Writer, stats []Stat) error {
	if len(stats) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	summaries := Summarize(stats)

	table, err := getSummary(summaries)
	if err != nil {
		return err
	}

	chart, err := getBarChart(summaries)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, strings.TrimSpace(table+chart))

	return nil
}
