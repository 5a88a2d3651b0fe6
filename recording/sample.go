package recording

import (
	"encoding/binary"
	"math"
)

// Format is the raw sample encoding delivered by an input device.
type Format string

const (
	FormatF32 Format = "f32"
	FormatS16 Format = "s16"
	FormatU16 Format = "u16"
)

// Audio parameters of every recording.
const (
	SampleRate  = 44100
	NumChannels = 1
)

// Size returns the number of bytes a single sample occupies.
func (f Format) Size() int {
	switch f {
	case FormatF32:
		return 4
	case FormatS16, FormatU16:
		return 2
	default:
		return 0
	}
}

// sample is any encoding the capture layer accepts.
type sample interface {
	float32 | int16 | uint16
}

// Normalize converts native samples to floats in [-1, 1].
func Normalize[T sample](in []T) []float32 {
	out := make([]float32, len(in))

	switch s := any(in).(type) {
	case []float32:
		for i, v := range s {
			out[i] = clamp(v)
		}
	case []int16:
		for i, v := range s {
			out[i] = float32(v) / 32768
		}
	case []uint16:
		for i, v := range s {
			out[i] = (float32(v) - 32768) / 32768
		}
	}

	return out
}

// Decode converts little-endian raw PCM bytes in the given format to
// normalised samples. Trailing bytes that do not form a whole sample are
// ignored.
func Decode(format Format, raw []byte) ([]float32, error) {
	size := format.Size()
	if size == 0 {
		return nil, ErrUnsupportedFormat.Fmt(format)
	}

	n := len(raw) / size

	switch format {
	case FormatF32:
		in := make([]float32, n)
		for i := range in {
			in[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}

		return Normalize(in), nil
	case FormatS16:
		in := make([]int16, n)
		for i := range in {
			in[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}

		return Normalize(in), nil
	default:
		in := make([]uint16, n)
		for i := range in {
			in[i] = binary.LittleEndian.Uint16(raw[i*2:])
		}

		return Normalize(in), nil
	}
}

func clamp(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}

	return min(max(v, -1), 1)
}
