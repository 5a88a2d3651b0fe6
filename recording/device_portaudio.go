package recording

import (
	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// portAudioDevice captures from the system's default input device.
type portAudioDevice struct {
	stream *portaudio.Stream
	format Format
}

// PortAudioOpener returns a DeviceOpener for the default input device. Only
// f32 and s16 are offered by the PortAudio bindings.
func PortAudioOpener(format Format) DeviceOpener {
	return func() (Device, error) {
		if format != FormatF32 && format != FormatS16 {
			return nil, ErrUnsupportedFormat.Fmt(format)
		}

		if err := portaudio.Initialize(); err != nil {
			return nil, ErrStreamFailed.Wrap(err)
		}

		if _, err := portaudio.DefaultInputDevice(); err != nil {
			_ = portaudio.Terminate()
			return nil, ErrNoDevice.Wrap(err)
		}

		return &portAudioDevice{format: format}, nil
	}
}

func (d *portAudioDevice) Start(
	onFrame func([]float32),
	_ func(error),
) error {
	var (
		stream *portaudio.Stream
		err    error
	)

	switch d.format {
	case FormatS16:
		stream, err = portaudio.OpenDefaultStream(
			NumChannels, 0, SampleRate, framesPerBuffer,
			func(in []int16) {
				onFrame(Normalize(in))
			},
		)
	default:
		stream, err = portaudio.OpenDefaultStream(
			NumChannels, 0, SampleRate, framesPerBuffer,
			func(in []float32) {
				onFrame(Normalize(in))
			},
		)
	}

	if err != nil {
		return ErrStreamFailed.Wrap(err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return ErrStreamFailed.Wrap(err)
	}

	d.stream = stream

	return nil
}

func (d *portAudioDevice) Close() error {
	defer func() {
		_ = portaudio.Terminate()
	}()

	if d.stream == nil {
		return nil
	}

	if err := d.stream.Stop(); err != nil {
		_ = d.stream.Close()
		return err
	}

	return d.stream.Close()
}
