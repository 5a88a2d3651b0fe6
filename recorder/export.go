package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
	"github.com/thoughtcast/thoughtcast/internal/pathutil"
	"github.com/thoughtcast/thoughtcast/internal/timeutil"
	"github.com/thoughtcast/thoughtcast/store"
)

// RenderMarkdown formats a transcript as a voice note.
func RenderMarkdown(sess *store.Session, text string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Voice note %s\n\n", sess.ID)
	fmt.Fprintf(&b, "- Recorded: %s\n", sess.Time().Local().Format(time.DateTime))
	fmt.Fprintf(&b, "- Duration: %s\n", timeutil.FormatSeconds(sess.Duration))
	fmt.Fprintf(&b, "- Source: `%s`\n", sess.AudioPath)

	if sess.ModelPath != nil {
		fmt.Fprintf(&b, "- Model: `%s`\n", filepath.Base(*sess.ModelPath))
	}

	b.WriteString("\n---\n\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n")

	return b.String()
}

// Export writes the transcript of session id as a Markdown note into the
// configured voice notes directory and returns the note's path.
func (r *Recorder) Export(id string) (string, error) {
	cfg, err := r.loadConfig()
	if err != nil {
		return "", err
	}

	if cfg.VoiceNotesDir == "" {
		return "", ErrNotesDirUnset.Fmt(r.paths.ConfigFilePath())
	}

	sess, err := r.ledger.Find(id)
	if err != nil {
		return "", err
	}

	text, err := r.Transcript(id)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoTranscript
	}

	dir := pathutil.ExpandHome(cfg.VoiceNotesDir)

	err = os.MkdirAll(dir, osutil.DirPermission)
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, id+".md")

	err = os.WriteFile(out, []byte(RenderMarkdown(sess, text)), osutil.FilePermission)
	if err != nil {
		return "", err
	}

	return out, nil
}
