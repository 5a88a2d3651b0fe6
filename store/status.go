package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/thoughtcast/thoughtcast/internal/osutil"
)

// Status is the snapshot a recording process publishes for the status
// command.
type Status struct {
	UpdatedAt time.Time `json:"updated_at"`
	State     string    `json:"state"`
	SessionID string    `json:"session_id,omitempty"`
	Duration  float64   `json:"duration"`
	Estimate  float64   `json:"estimate,omitempty"`
}

// WriteStatus stores s in the status file at path.
func WriteStatus(path string, s *Status) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, osutil.FilePermission)
}

// ReadStatus reads the status file at path. A missing file yields a nil
// status and no error.
func ReadStatus(path string) (*Status, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var s Status

	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// RemoveStatus deletes the status file, ignoring a missing file.
func RemoveStatus(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
