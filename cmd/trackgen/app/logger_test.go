package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var level slog.LevelVar
	path := filepath.Join(t.TempDir(), "logs", "trackgen.log")

	logger, closer, err := NewLogger(&Settings{LogFile: path}, &level)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("flight processed", slog.String("name", "circuit"))
	if err = closer.Close(); err != nil {
		t.Fatalf("Failed to close log file: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(b), "name=circuit") {
		t.Errorf("Expected the record in the log file, got %q", b)
	}
}

func TestNewLogger_Stdout(t *testing.T) {
	var level slog.LevelVar

	logger, closer, err := NewLogger(&Settings{}, &level)
	if err != nil || logger == nil || closer == nil {
		t.Fatalf("Expected a stdout logger, got %v, %v, %v", logger, closer, err)
	}
	if err = closer.Close(); err != nil {
		t.Errorf("Expected a no-op closer, got %v", err)
	}
}

func TestNewLogger_Unwritable(t *testing.T) {
	var level slog.LevelVar
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// The log directory would have to be created below a regular file
	logger, _, err := NewLogger(&Settings{LogFile: filepath.Join(file, "logs", "trackgen.log")}, &level)
	if err == nil {
		t.Fatal("Expected an error for an unwritable log directory")
	}
	if logger != nil {
		t.Error("Expected no logger on failure")
	}
}
