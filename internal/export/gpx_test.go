package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

func ptr[T any](v T) *T {
	return &v
}

var fixes = []telemetry.GpsFix{
	{Lat: 47.0, Lon: 8.0, Altitude: ptr(400.0), Satellites: ptr(9), Time: "2024-05-01T10:00:00Z"},
	{Lat: 47.001, Lon: 8.001, Time: "10:00:01"},
	{Lat: 47.002, Lon: 8.002, Altitude: ptr(410.5)},
}

func TestGPX(t *testing.T) {
	doc := GPX("test flight", fixes)

	if len(doc.Tracks) != 1 || len(doc.Tracks[0].Segments) != 1 {
		t.Fatalf("Expected one track with one segment")
	}

	points := doc.Tracks[0].Segments[0].Points
	if len(points) != len(fixes) {
		t.Fatalf("Expected %d points, got %d", len(fixes), len(points))
	}

	if !points[0].Elevation.NotNull() || points[0].Elevation.Value() != 400 {
		t.Errorf("Expected elevation 400, got %v", points[0].Elevation)
	}
	if points[1].Elevation.NotNull() {
		t.Errorf("Expected no elevation for the second point")
	}
	if !points[0].Satellites.NotNull() || points[0].Satellites.Value() != 9 {
		t.Errorf("Expected 9 satellites, got %v", points[0].Satellites)
	}
	if expected := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC); !points[0].Timestamp.Equal(expected) {
		t.Errorf("Expected timestamp %s, got %s", expected, points[0].Timestamp)
	}
	if !points[1].Timestamp.IsZero() {
		t.Errorf("Expected no timestamp for a clock time, got %s", points[1].Timestamp)
	}
}

func TestWriteGPX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGPX(&buf, "test flight", fixes); err != nil {
		t.Fatalf("Failed to write GPX: %v", err)
	}

	doc, err := gpx.ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse written GPX: %v", err)
	}
	if doc.Creator != creator {
		t.Errorf("Expected creator %q, got %q", creator, doc.Creator)
	}

	points := doc.Tracks[0].Segments[0].Points
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	if points[2].Latitude != 47.002 || points[2].Longitude != 8.002 {
		t.Errorf("Expected 47.002,8.002 got %f,%f", points[2].Latitude, points[2].Longitude)
	}
}

func TestSaveGPX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.gpx")
	if err := SaveGPX(path, "test flight", fixes); err != nil {
		t.Fatalf("Failed to save GPX: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read GPX file: %v", err)
	}
	if !bytes.Contains(b, []byte("<trkpt")) {
		t.Error("Expected track points in the file")
	}

	if err = SaveGPX(filepath.Join(t.TempDir(), "missing", "flight.gpx"), "x", fixes); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
