package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"
	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

// Store persists processed flights and their fixes. Implementations must be
// safe for concurrent use; every write is atomic.
type Store interface {
	// CreateFlight registers a flight and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - name: Flight name from the configuration
	//   - source: Log file the flight was read from
	//   - departure, landing: Optional takeoff and landing coordinates
	//   - synthesized: Whether the track was reconstructed from telemetry
	//
	// Returns:
	//   - flightID: Unique identifier for the created flight
	//   - error: If creation fails or context is cancelled
	CreateFlight(ctx context.Context, name, source string, departure, landing *geo.Coordinate, synthesized bool) (flightID int64, err error)

	// Flight retrieves a flight by its ID, returning sql.ErrNoRows wrapped
	// when it does not exist.
	Flight(ctx context.Context, id int64) (*Flight, error)

	// Flights returns all stored flights ordered by creation time.
	Flights(ctx context.Context) ([]*Flight, error)

	// StoreFixes appends fixes to a flight. Fixes are written in batches
	// inside a single transaction, either all of them are stored or none.
	StoreFixes(ctx context.Context, flightID int64, fixes []telemetry.GpsFix) error

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}
