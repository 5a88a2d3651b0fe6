package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// waitForFile blocks until path exists or timeout elapses. It returns true
// if the file is present.
func waitForFile(ctx context.Context, path string, timeout time.Duration) bool {
	if fileExists(path) {
		return true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return sleepThenCheck(ctx, path, timeout)
	}

	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return sleepThenCheck(ctx, path, timeout)
	}

	// the file may have appeared before the watch was registered
	if fileExists(path) {
		return true
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return fileExists(path)
		case <-deadline.C:
			return fileExists(path)
		case ev, ok := <-watcher.Events:
			if !ok {
				return sleepThenCheck(ctx, path, timeout)
			}

			if filepath.Clean(ev.Name) == filepath.Clean(path) &&
				ev.Op&(fsnotify.Create|fsnotify.Write) != 0 &&
				fileExists(path) {
				return true
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return sleepThenCheck(ctx, path, timeout)
			}
		}
	}
}

func sleepThenCheck(ctx context.Context, path string, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}

	return fileExists(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
