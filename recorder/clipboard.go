package recorder

import (
	"github.com/atotto/clipboard"
)

// Clipboard receives finished transcripts.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}

	return clipboard.WriteAll(text)
}

// NoClipboard refuses every write so sessions are never marked as copied.
type NoClipboard struct{}

func (NoClipboard) WriteAll(string) error {
	return errClipboardDisabled
}
