package recording

import "math"

// Level meter defaults.
const (
	LevelCount       = 20
	SamplesPerLevel  = 800
	levelSensitivity = 0.05
)

// Levels returns LevelCount normalised loudness values for the most recent
// audio, oldest first. The result is empty unless the state is recording.
func (s *State) Levels() []float32 {
	if !s.IsRecording() {
		return []float32{}
	}

	return ComputeLevels(s.buf.Tail(LevelCount*SamplesPerLevel), LevelCount, SamplesPerLevel)
}

// ComputeLevels splits the most recent complete windows of w samples (at most
// n of them) into RMS levels scaled to [0,1]. The result always has exactly n
// entries and is left-padded with zeros when fewer windows are available.
func ComputeLevels(samples []float32, n, w int) []float32 {
	levels := make([]float32, n)

	if n <= 0 || w <= 0 {
		return levels
	}

	windows := min(len(samples)/w, n)
	start := len(samples) - windows*w
	offset := n - windows

	for i := range windows {
		from := start + i*w
		levels[offset+i] = scaleLevel(rms(samples[from : from+w]))
	}

	return levels
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64

	for _, v := range samples {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum / float64(len(samples)))
}

func scaleLevel(v float64) float32 {
	return float32(min(max(v/levelSensitivity, 0), 1))
}
