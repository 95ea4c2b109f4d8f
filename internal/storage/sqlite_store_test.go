package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

func ptr[T any](v T) *T {
	return &v
}

func newTestStore(t *testing.T, options ...func(*SqliteStore)) *SqliteStore {
	t.Helper()

	s := NewSqliteStore(filepath.Join(t.TempDir(), "logbook.db"), options...)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return s
}

func testFixes(n int) []telemetry.GpsFix {
	fixes := make([]telemetry.GpsFix, n)
	for i := range fixes {
		fixes[i] = telemetry.GpsFix{
			Lat:         47 + float64(i)*0.0001,
			Lon:         8 + float64(i)*0.0001,
			Altitude:    ptr(400 + float64(i)),
			GroundSpeed: ptr(30.5),
		}
	}
	return fixes
}

func TestSqliteStore_Flights(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	departure := geo.Coordinate{Lat: 47, Lon: 8}
	landing := geo.Coordinate{Lat: 47.01, Lon: 8.01}

	first, err := s.CreateFlight(ctx, "morning", "logs/morning.csv", &departure, &landing, true)
	if err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	second, err := s.CreateFlight(ctx, "evening", "logs/evening.csv", nil, nil, false)
	if err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	if first == second {
		t.Fatalf("Expected distinct flight IDs, got %d twice", first)
	}

	f, err := s.Flight(ctx, first)
	if err != nil {
		t.Fatalf("Failed to read flight: %v", err)
	}
	if f.Name != "morning" || f.Source != "logs/morning.csv" || !f.Synthesized {
		t.Errorf("Unexpected flight %+v", f)
	}
	if f.Departure == nil || *f.Departure != departure || f.Landing == nil || *f.Landing != landing {
		t.Errorf("Expected endpoints %v and %v, got %v and %v", departure, landing, f.Departure, f.Landing)
	}
	if f.CreatedAt.IsZero() {
		t.Error("Expected creation time to be set")
	}

	f, err = s.Flight(ctx, second)
	if err != nil {
		t.Fatalf("Failed to read flight: %v", err)
	}
	if f.Departure != nil || f.Landing != nil || f.Synthesized {
		t.Errorf("Expected a recorded flight without endpoints, got %+v", f)
	}

	flights, err := s.Flights(ctx)
	if err != nil {
		t.Fatalf("Failed to list flights: %v", err)
	}
	if len(flights) != 2 || flights[0].ID != first || flights[1].ID != second {
		t.Errorf("Expected flights %d and %d, got %v", first, second, flights)
	}

	if _, err = s.Flight(ctx, 9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestSqliteStore_Fixes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithMaxBatchSize(7))

	id, err := s.CreateFlight(ctx, "f", "f.csv", nil, nil, false)
	if err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}

	fixes := testFixes(50)
	fixes[3].Satellites = ptr(0)
	fixes[3].Time = "10:00:03"
	fixes[4].Altitude = nil

	if err = s.StoreFixes(ctx, id, fixes[:20]); err != nil {
		t.Fatalf("Failed to store fixes: %v", err)
	}
	if err = s.StoreFixes(ctx, id, fixes[20:]); err != nil {
		t.Fatalf("Failed to store fixes: %v", err)
	}
	if err = s.StoreFixes(ctx, id, nil); err != nil {
		t.Fatalf("Expected no error for empty fixes, got %v", err)
	}

	r, err := s.ReadFixes(ctx, id, WithBatchSize(8))
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}
	defer r.Close()

	if r.Flight().NumFixes != 50 {
		t.Errorf("Expected 50 fixes, got %d", r.Flight().NumFixes)
	}

	read, err := ReadAll(ctx, r)
	if err != nil {
		t.Fatalf("Failed to read fixes: %v", err)
	}
	if len(read) != len(fixes) {
		t.Fatalf("Expected %d fixes, got %d", len(fixes), len(read))
	}

	for i := range fixes {
		if read[i].Lat != fixes[i].Lat || read[i].Lon != fixes[i].Lon {
			t.Fatalf("Fix %d: expected %f,%f got %f,%f", i, fixes[i].Lat, fixes[i].Lon, read[i].Lat, read[i].Lon)
		}
	}

	if read[3].Satellites == nil || *read[3].Satellites != 0 {
		t.Errorf("Expected zero satellites to be preserved, got %v", read[3].Satellites)
	}
	if read[3].Time != "10:00:03" {
		t.Errorf("Expected time 10:00:03, got %q", read[3].Time)
	}
	if read[0].Satellites != nil || read[0].Roll != nil {
		t.Error("Expected absent fields to stay absent")
	}
	if read[4].Altitude != nil {
		t.Errorf("Expected absent altitude, got %f", *read[4].Altitude)
	}
	if read[5].Altitude == nil || *read[5].Altitude != 405 {
		t.Errorf("Expected altitude 405, got %v", read[5].Altitude)
	}
}

func TestSqliteStore_ReadFixesOffset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateFlight(ctx, "f", "f.csv", nil, nil, false)
	if err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	if err = s.StoreFixes(ctx, id, testFixes(10)); err != nil {
		t.Fatalf("Failed to store fixes: %v", err)
	}

	r, err := s.ReadFixes(ctx, id, WithOffset(6), WithBatchSize(3))
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}
	defer r.Close()

	var n int
	for r.Next(ctx) {
		n++
	}
	if err = r.Error(); err != nil {
		t.Fatalf("Failed to read fixes: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 fixes, got %d", n)
	}
	if r.Next(ctx) {
		t.Error("Expected the reader to stay exhausted")
	}
}

func TestSqliteStore_ReadFixesUnknownFlight(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.CreateFlight(ctx, "f", "f.csv", nil, nil, false); err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	if _, err := s.ReadFixes(ctx, 42); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestSqliteStore_StoreFixesUnknownFlight(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.StoreFixes(ctx, 42, testFixes(3)); err == nil {
		t.Error("Expected a foreign key violation")
	}
}

func TestSqliteStore_CloseTwice(t *testing.T) {
	s := NewSqliteStore(filepath.Join(t.TempDir(), "logbook.db"))
	if _, err := s.CreateFlight(context.Background(), "f", "f.csv", nil, nil, false); err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Expected second close to succeed, got %v", err)
	}
}

func TestSqliteStore_FixSequenceIndexedBeforeClose(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateFlight(ctx, "indexed", "indexed.csv", nil, nil, false)
	if err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	if err = s.StoreFixes(ctx, id, testFixes(3)); err != nil {
		t.Fatalf("Failed to store fixes: %v", err)
	}

	db, err := s.getReadDB()
	if err != nil {
		t.Fatalf("Failed to get read connection: %v", err)
	}

	var n int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_fixes_flight_seq'").Scan(&n)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected the fix sequence index to exist while the store is open, got %d", n)
	}
}
