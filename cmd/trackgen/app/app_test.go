package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/flight-logbook/internal/storage"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "logs", "circuit.csv"), strings.Join([]string{
		"Time,Roll,Ail,Rud,GPS_speed,RxBt",
		"0,0,0,0,40,8.1",
		"1,5,10,0,42,8.0",
		"2,5,10,0,44,8.0",
		"3,-5,-10,0,40,7.9",
		"4,0,0,0,38,7.9",
	}, "\n"))
	writeFile(t, filepath.Join(dir, "logs", "recorded.csv"), strings.Join([]string{
		telemetry.GPSHeader,
		"10:00:00,8,47.0,8.0,400,10,0,0,0,0,0,8.1,1,0,100,100,25,0,0,0,0",
		"10:00:01,9,47.001,8.001,420,15,45,2,0,0,0,8.0,1,1,100,100,25,0,0,0,0",
	}, "\n"))

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
settings:
  maxParallel: 2
storage:
  dataDirectory: data
  maxBatchSize: 2
export:
  gpxDirectory: gpx
flights:
  - name: circuit
    input: logs/circuit.csv
    departure: "47.0, 8.0"
    landing: "47.001, 8.001"
    envelope:
      circular: {radius: 200}
  - name: recorded
    input: logs/recorded.csv
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	if err = Run(ctx, config, discardLogger); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, name := range []string{"circuit.gpx", "recorded.gpx"} {
		if _, err = os.Stat(filepath.Join(dir, "gpx", name)); err != nil {
			t.Errorf("Expected %s to be exported: %v", name, err)
		}
	}

	store := storage.NewSqliteStore(config.Storage.DatabasePath())
	defer store.Close()

	flights, err := store.Flights(ctx)
	if err != nil {
		t.Fatalf("Failed to list flights: %v", err)
	}
	if len(flights) != 2 {
		t.Fatalf("Expected 2 flights, got %d", len(flights))
	}

	byName := make(map[string]*storage.Flight)
	for _, f := range flights {
		byName[f.Name] = f
	}
	if f := byName["circuit"]; f == nil || !f.Synthesized || f.NumFixes != 5 {
		t.Errorf("Unexpected circuit flight %+v", f)
	}
	if f := byName["recorded"]; f == nil || f.Synthesized || f.NumFixes != 2 {
		t.Errorf("Unexpected recorded flight %+v", f)
	}

	if err = List(ctx, config, discardLogger); err != nil {
		t.Errorf("List failed: %v", err)
	}

	out := filepath.Join(dir, "export.gpx")
	if err = ExportFlight(ctx, config, byName["circuit"].ID, out, discardLogger); err != nil {
		t.Fatalf("ExportFlight failed: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if n := strings.Count(string(b), "<trkpt"); n != 5 {
		t.Errorf("Expected 5 track points, got %d", n)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.csv"), telemetry.GPSHeader+"\n,,,,,,,,,,,,,,,,,,,,")

	config := NewConfig()
	config.Storage.Enabled = false

	if err := Run(context.Background(), config, discardLogger); err == nil {
		t.Error("Expected an error without flights")
	}

	config.Flights = []FlightConfig{{Name: "missing", Input: filepath.Join(dir, "missing.csv"), Format: "auto"}}
	if err := Run(context.Background(), config, discardLogger); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("Expected a read error naming the flight, got %v", err)
	}

	config.Flights = []FlightConfig{{Name: "bad", Input: filepath.Join(dir, "bad.csv"), Format: "auto"}}
	if err := Run(context.Background(), config, discardLogger); err == nil || !strings.Contains(err.Error(), telemetry.ErrNoValidFixes.Error()) {
		t.Errorf("Expected ErrNoValidFixes, got %v", err)
	}
}

func TestList_MissingLogbook(t *testing.T) {
	config := NewConfig()
	config.Storage.DataDirectory = t.TempDir()

	if err := List(context.Background(), config, discardLogger); err == nil {
		t.Error("Expected an error for a missing logbook")
	}
}
