package stats

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

func ptr[T any](v T) *T { return &v }

func TestCompute_Empty(t *testing.T) {
	for _, fixes := range [][]telemetry.GpsFix{nil, {}} {
		s := Compute(fixes)
		if s.Altitude != nil || s.GroundSpeed != nil || s.VerticalSpeed != nil || s.Satellites != nil {
			t.Errorf("Expected all ranges to be absent, got %+v", s)
		}
	}
}

func TestCompute_OnlyAltitude(t *testing.T) {
	s := Compute([]telemetry.GpsFix{
		{Lat: 1, Lon: 1, Altitude: ptr(120.0)},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 1, Altitude: ptr(-5.0)},
	})

	if s.Altitude == nil {
		t.Fatal("Expected altitude range")
	}
	if s.Altitude.Min != -5 || s.Altitude.Max != 120 {
		t.Errorf("Expected altitude -5..120, got %v..%v", s.Altitude.Min, s.Altitude.Max)
	}
	if s.GroundSpeed != nil || s.VerticalSpeed != nil || s.Satellites != nil {
		t.Errorf("Expected other ranges to be absent, got %+v", s)
	}
}

func TestCompute_AllFields(t *testing.T) {
	s := Compute([]telemetry.GpsFix{
		{Altitude: ptr(10.0), GroundSpeed: ptr(0.0), VerticalSpeed: ptr(-1.5), Satellites: ptr(7)},
		{Altitude: ptr(30.0), GroundSpeed: ptr(42.0), VerticalSpeed: ptr(2.5), Satellites: ptr(12)},
		{Altitude: ptr(20.0), GroundSpeed: ptr(21.0), VerticalSpeed: ptr(0.0), Satellites: ptr(9)},
	})

	if s.Altitude.Min != 10 || s.Altitude.Max != 30 {
		t.Errorf("Unexpected altitude range %+v", *s.Altitude)
	}
	// A zero reading is a value, not an absence
	if s.GroundSpeed.Min != 0 || s.GroundSpeed.Max != 42 {
		t.Errorf("Unexpected speed range %+v", *s.GroundSpeed)
	}
	if s.VerticalSpeed.Min != -1.5 || s.VerticalSpeed.Max != 2.5 {
		t.Errorf("Unexpected vertical speed range %+v", *s.VerticalSpeed)
	}
	if s.Satellites.Min != 7 || s.Satellites.Max != 12 {
		t.Errorf("Unexpected satellites range %+v", *s.Satellites)
	}
}

func TestStatistics_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := Compute([]telemetry.GpsFix{{Altitude: ptr(10.0), Satellites: ptr(8)}})
	logger.Info("stats", slog.Any("stats", s))

	out := buf.String()
	if !strings.Contains(out, "stats.altitude=10.0..10.0m") || !strings.Contains(out, "stats.satellites=8..8") {
		t.Errorf("Unexpected log output: %s", out)
	}
	if strings.Contains(out, "speed") {
		t.Errorf("Expected absent ranges to be omitted: %s", out)
	}
}
