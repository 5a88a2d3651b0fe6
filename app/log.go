package app

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thoughtcast/thoughtcast/internal/pathutil"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

// setupLogger sends structured logs to a rotating file in the data
// directory.
func setupLogger(paths *pathutil.Paths, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	w := &lumberjack.Logger{
		Filename:   paths.LogFilePath(),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)

	return logger
}
