package transcribe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
	"github.com/thoughtcast/thoughtcast/internal/pathutil"
)

// CleanTranscript removes the timestamp lines whisper emits (such as
// "[00:00:00.000 --> 00:00:02.000]") and trims the surrounding whitespace.
// Bracketed text without an arrow is kept.
func CleanTranscript(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := lines[:0]

	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.Contains(trimmed, "-->") {
			continue
		}

		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// SaveTranscript writes text to text/<id>.txt under root and returns the
// path relative to root.
func SaveTranscript(root, id, text string) (string, error) {
	rel := pathutil.TextRelPath(id)
	abs := filepath.Join(root, filepath.FromSlash(rel))

	err := os.MkdirAll(filepath.Dir(abs), osutil.DirPermission)
	if err != nil {
		return "", errSaveTranscript.Fmt(abs).Wrap(err)
	}

	err = os.WriteFile(abs, []byte(text), osutil.FilePermission)
	if err != nil {
		return "", errSaveTranscript.Fmt(abs).Wrap(err)
	}

	return rel, nil
}

// LoadTranscript reads the saved transcript of session id.
func LoadTranscript(root, id string) (string, error) {
	abs := filepath.Join(root, filepath.FromSlash(pathutil.TextRelPath(id)))

	b, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrTranscriptNotFound.Fmt(abs)
	}

	if err != nil {
		return "", errReadOutput.Fmt(abs).Wrap(err)
	}

	return string(b), nil
}

// Preview returns the first 100 characters of text followed by an ellipsis
// when it is longer, or "No transcript" for empty text.
func Preview(text string) string {
	const limit = 100

	if text == "" {
		return "No transcript"
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit]) + "..."
}
