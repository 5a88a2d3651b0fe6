// Package stats derives transcription speed statistics from past sessions
// and estimates how long the next transcription will take
package stats

import (
	"slices"
	"time"

	"github.com/thoughtcast/thoughtcast/store"
)

const (
	minSamples      = 10
	mediumThreshold = 20
	highThreshold   = 50
)

// Confidence describes how much history backs an estimate.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Stat is a single transcription timing measurement.
type Stat struct {
	Timestamp         time.Time `json:"timestamp"`
	Model             string    `json:"model_path"`
	AudioSeconds      float64   `json:"audio_duration_seconds"`
	TranscribeSeconds float64   `json:"transcription_time_seconds"`
}

// Ratio is the transcription time per second of audio.
func (s Stat) Ratio() float64 {
	return s.TranscribeSeconds / s.AudioSeconds
}

// Estimate is a predicted transcription time.
type Estimate struct {
	Confidence       Confidence `json:"confidence"`
	EstimatedSeconds float64    `json:"estimatedSeconds"`
	Samples          int        `json:"samples"`
}

// Extract collects the timing data of every session that recorded both the
// transcription time and the model.
func Extract(sessions []store.Session) []Stat {
	out := make([]Stat, 0, len(sessions))

	for i := range sessions {
		s := &sessions[i]

		if !s.HasStats() {
			continue
		}

		out = append(out, Stat{
			Timestamp:         s.Time(),
			Model:             *s.ModelPath,
			AudioSeconds:      s.Duration,
			TranscribeSeconds: *s.TranscriptionTimeSeconds,
		})
	}

	return out
}

// ForModel keeps the measurements taken with model.
func ForModel(stats []Stat, model string) []Stat {
	out := make([]Stat, 0, len(stats))

	for _, s := range stats {
		if s.Model == model {
			out = append(out, s)
		}
	}

	return out
}

// ConfidenceFor maps a number of measurements to a confidence level.
func ConfidenceFor(n int) Confidence {
	switch {
	case n < minSamples:
		return ConfidenceNone
	case n < mediumThreshold:
		return ConfidenceLow
	case n < highThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// EstimateFor predicts the transcription time of audioSeconds of audio from
// the median ratio of past measurements. It reports false when fewer than
// ten measurements exist or none has a positive audio duration.
func EstimateFor(stats []Stat, audioSeconds float64) (Estimate, bool) {
	if len(stats) < minSamples {
		return Estimate{}, false
	}

	ratio, ok := medianRatio(stats)
	if !ok {
		return Estimate{}, false
	}

	return Estimate{
		EstimatedSeconds: audioSeconds * ratio,
		Confidence:       ConfidenceFor(len(stats)),
		Samples:          len(stats),
	}, true
}

// Predict estimates with the measurements of model when they are enough on
// their own, and with the whole history otherwise.
func Predict(stats []Stat, model string, audioSeconds float64) (Estimate, bool) {
	if model != "" {
		if est, ok := EstimateFor(ForModel(stats, model), audioSeconds); ok {
			return est, true
		}
	}

	return EstimateFor(stats, audioSeconds)
}

func medianRatio(stats []Stat) (float64, bool) {
	ratios := make([]float64, 0, len(stats))

	for _, s := range stats {
		if s.AudioSeconds > 0 {
			ratios = append(ratios, s.Ratio())
		}
	}

	if len(ratios) == 0 {
		return 0, false
	}

	slices.Sort(ratios)

	mid := len(ratios) / 2

	if len(ratios)%2 == 0 {
		return (ratios[mid-1] + ratios[mid]) / 2, true
	}

	return ratios[mid], true
}
