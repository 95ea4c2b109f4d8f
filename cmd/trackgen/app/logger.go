package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSize    = 32 // MB
	logFileMaxBackups = 3
	logFileMaxAge     = 28 // days
)

// NewLogger creates the application logger writing text records to stdout
// and, when a log file is configured, to a size-rotated file as well. The
// returned closer releases the log file.
func NewLogger(settings *Settings, level *slog.LevelVar) (*slog.Logger, io.Closer, error) {
	if settings.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(settings.LogFile), 0o755); err != nil {
		return nil, nil, err
	}

	w := &lumberjack.Logger{
		Filename:   settings.LogFile,
		MaxSize:    logFileMaxSize,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAge,
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, w), &slog.HandlerOptions{Level: level})
	return slog.New(handler), w, nil
}
