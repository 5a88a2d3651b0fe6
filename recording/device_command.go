package recording

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
)

const commandReadSize = 4096

var errCommandExited = errors.New("capture command stopped producing audio")

// commandDevice reads raw mono PCM from the standard output of an external
// program such as arecord or ffmpeg.
type commandDevice struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr strings.Builder
	wg     sync.WaitGroup
	format Format
}

// CommandOpener returns a DeviceOpener that runs cmdLine for every session.
// The program must write little-endian samples in format at 44.1 kHz mono.
func CommandOpener(cmdLine string, format Format) DeviceOpener {
	return func() (Device, error) {
		if format.Size() == 0 {
			return nil, ErrUnsupportedFormat.Fmt(format)
		}

		args, err := shellquote.Split(cmdLine)
		if err != nil {
			return nil, fmt.Errorf("unable to parse capture command: %w", err)
		}

		if len(args) == 0 {
			return nil, ErrNoDevice
		}

		d := &commandDevice{
			cmd:    exec.Command(args[0], args[1:]...),
			format: format,
		}

		d.cmd.Stderr = &d.stderr

		d.stdout, err = d.cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}

		return d, nil
	}
}

func (d *commandDevice) Start(
	onFrame func([]float32),
	onError func(error),
) error {
	if err := d.cmd.Start(); err != nil {
		return ErrNoDevice.Wrap(err)
	}

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		err := d.read(onFrame)
		if err == nil || errors.Is(err, io.EOF) {
			err = errCommandExited
		}

		onError(err)
	}()

	return nil
}

func (d *commandDevice) read(onFrame func([]float32)) error {
	r := bufio.NewReader(d.stdout)
	size := d.format.Size()
	buf := make([]byte, commandReadSize*size)

	var pending []byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			whole := len(pending) / size * size

			if whole > 0 {
				frame, derr := Decode(d.format, pending[:whole])
				if derr != nil {
					return derr
				}

				onFrame(frame)

				pending = append(pending[:0], pending[whole:]...)
			}
		}

		if err != nil {
			return err
		}
	}
}

func (d *commandDevice) Close() error {
	// a failed Start has already closed the pipe
	if d.cmd.Process == nil {
		return nil
	}

	_ = d.cmd.Process.Kill()

	d.wg.Wait()

	err := d.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}

	if err != nil && d.stderr.Len() > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(d.stderr.String()))
	}

	return err
}
