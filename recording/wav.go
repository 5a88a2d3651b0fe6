package recording

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
)

// wavFormat is mono 16-bit PCM at 44.1 kHz.
var wavFormat = beep.Format{
	SampleRate:  SampleRate,
	NumChannels: NumChannels,
	Precision:   2,
}

// WriteWAV encodes samples as a mono 16-bit WAV file at path, creating the
// parent directory if needed.
func WriteWAV(path string, samples []float32) error {
	err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return errWriteWAV.Fmt(path).Wrap(err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errWriteWAV.Fmt(path).Wrap(err)
	}

	err = wav.Encode(f, samplesStreamer(samples), wavFormat)
	if err != nil {
		_ = f.Close()
		return errWriteWAV.Fmt(path).Wrap(err)
	}

	if err := f.Close(); err != nil {
		return errWriteWAV.Fmt(path).Wrap(err)
	}

	return nil
}

// samplesStreamer plays the mono samples on both channels of a beep
// stream.
func samplesStreamer(samples []float32) beep.Streamer {
	pos := 0

	return beep.StreamerFunc(func(out [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}

		n := fillStereo(out, samples[pos:])
		pos += n

		return n, true
	})
}

func fillStereo(out [][2]float64, in []float32) int {
	n := min(len(out), len(in))

	for i := range n {
		v := float64(clamp(in[i]))
		out[i][0] = v
		out[i][1] = v
	}

	return n
}

// OpenWAV decodes the WAV file at path for playback.
func OpenWAV(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errReadWAV.Fmt(path).Wrap(err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, errReadWAV.Fmt(path).Wrap(err)
	}

	return streamer, format, nil
}

// WAVDuration returns the playing time of the WAV file at path.
func WAVDuration(path string) (time.Duration, error) {
	streamer, format, err := OpenWAV(path)
	if err != nil {
		return 0, err
	}

	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
