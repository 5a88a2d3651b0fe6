package transcribe

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTranscript(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "removes timestamps",
			raw:      "[00:00:00.000 --> 00:00:02.000]\nHello world\n[00:00:02.000 --> 00:00:04.000]\nThis is a test",
			expected: "Hello world\nThis is a test",
		},
		{
			name:     "preserves plain text",
			raw:      "Hello world\nThis is a test",
			expected: "Hello world\nThis is a test",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "keeps brackets without arrows",
			raw:      "The formula is [a + b] equals c\nAnother line with [brackets]",
			expected: "The formula is [a + b] equals c\nAnother line with [brackets]",
		},
		{
			name:     "only timestamps",
			raw:      "[00:00:00.000 --> 00:00:02.000]\n[00:00:02.000 --> 00:00:04.000]",
			expected: "",
		},
		{
			name:     "trims only the outer whitespace",
			raw:      "  \n  Hello world  \n  [00:00:00.000 --> 00:00:02.000]  \n  Test  \n  ",
			expected: "Hello world  \n  Test",
		},
		{
			name:     "windows line endings",
			raw:      "[00:00:00.000 --> 00:00:02.000]\r\nLine 1\r\nLine 2\r\n",
			expected: "Line 1\nLine 2",
		},
		{
			name:     "arrow without leading bracket is text",
			raw:      "a --> b",
			expected: "a --> b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanTranscript(tc.raw))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "No transcript", Preview(""))
	assert.Equal(t, "short", Preview("short"))

	exact := strings.Repeat("a", 100)
	assert.Equal(t, exact, Preview(exact))

	long := strings.Repeat("b", 150)
	assert.Equal(t, strings.Repeat("b", 100)+"...", Preview(long))

	accents := strings.Repeat("é", 101)
	assert.Equal(t, strings.Repeat("é", 100)+"...", Preview(accents))
}

func TestSaveAndLoadTranscript(t *testing.T) {
	root := t.TempDir()

	rel, err := SaveTranscript(root, "2024-01-01_10-00-00", "hello")
	require.NoError(t, err)
	assert.Equal(t, "text/2024-01-01_10-00-00.txt", rel)
	assert.FileExists(t, filepath.Join(root, "text", "2024-01-01_10-00-00.txt"))

	text, err := LoadTranscript(root, "2024-01-01_10-00-00")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = LoadTranscript(root, "missing")
	assert.ErrorIs(t, err, ErrTranscriptNotFound)
}
