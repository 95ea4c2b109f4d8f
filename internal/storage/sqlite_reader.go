package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

// DefaultReaderBatchSize is the number of fixes fetched per query
const DefaultReaderBatchSize = 1000

// ErrNoData indicates that the flight has no fixes left to read
var ErrNoData = errors.New("no data available")

// ReaderOption configures a FixReader
type ReaderOption func(*FixReader)

// WithBatchSize sets the number of fixes fetched per query
func WithBatchSize(n int) ReaderOption {
	return func(r *FixReader) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithOffset skips the first n fixes of the flight
func WithOffset(n int) ReaderOption {
	return func(r *FixReader) {
		if n > 0 {
			r.nextSeq = int64(n)
		}
	}
}

// FixReader iterates over the stored fixes of a flight. Fixes are fetched
// page by page, so arbitrarily long tracks are read in bounded memory.
type FixReader struct {
	db        *sql.DB
	stmt      *sql.Stmt
	flight    *Flight
	batchSize int

	nextSeq int64
	buffer  []*telemetry.GpsFix
	current *telemetry.GpsFix
	done    bool
	err     error
}

func newFixReader(ctx context.Context, db *sql.DB, flightID int64, opts ...ReaderOption) (*FixReader, error) {
	fr := &FixReader{
		db:        db,
		batchSize: DefaultReaderBatchSize,
	}
	for _, opt := range opts {
		opt(fr)
	}
	if err := fr.init(ctx, flightID); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return fr, nil
}

func (fr *FixReader) init(ctx context.Context, flightID int64) (err error) {
	if fr.db == nil {
		return errors.New("database connection required")
	}
	if flightID <= 0 {
		return errors.New("flight ID required")
	}

	stmt, err := fr.db.PrepareContext(ctx, selectFlightSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if fr.flight, err = scanFlight(stmt.QueryRowContext(ctx, flightID)); err != nil {
		return fmt.Errorf("loading flight: %w", err)
	}

	if fr.stmt, err = fr.db.PrepareContext(ctx, selectFixesSQL); err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	return nil
}

// Flight returns the flight this reader is accessing
func (fr *FixReader) Flight() *Flight {
	return fr.flight
}

// Next advances the iterator and returns true if there is another fix to
// read, false when the iteration is complete or an error occurred.
func (fr *FixReader) Next(ctx context.Context) bool {
	if fr.err != nil || fr.stmt == nil {
		return false
	}

	if len(fr.buffer) == 0 && !fr.done {
		if fr.err = fr.fetch(ctx); fr.err != nil {
			return false
		}
	}

	if len(fr.buffer) == 0 {
		fr.current = nil
		fr.err = ErrNoData
		return false
	}

	fr.current, fr.buffer = fr.buffer[0], fr.buffer[1:]
	return true
}

func (fr *FixReader) fetch(ctx context.Context) (err error) {
	rows, err := fr.stmt.QueryContext(ctx, fr.flight.ID, fr.nextSeq, fr.batchSize)
	if err != nil {
		return fmt.Errorf("querying fixes: %w", err)
	}
	defer closeWithError(rows, &err)

	fr.buffer = make([]*telemetry.GpsFix, 0, fr.batchSize)
	for rows.Next() {
		var d fixData
		if err = rows.Scan(d.scanTargets()...); err != nil {
			return fmt.Errorf("scanning fix: %w", err)
		}
		fr.buffer = append(fr.buffer, fromFixData(&d))
		fr.nextSeq = d.Seq + 1
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterating fixes: %w", err)
	}

	fr.done = len(fr.buffer) < fr.batchSize
	return nil
}

// Current returns the fix the reader is positioned at
func (fr *FixReader) Current() *telemetry.GpsFix {
	return fr.current
}

// Error returns any error that occurred during iteration, nil when all
// fixes have been read
func (fr *FixReader) Error() error {
	if fr.err != nil && !errors.Is(fr.err, ErrNoData) {
		return fr.err
	}
	return nil
}

func (fr *FixReader) Close() error {
	if fr.stmt != nil {
		err := fr.stmt.Close()
		fr.stmt = nil
		fr.buffer = nil
		fr.current = nil
		return err
	}
	return nil
}

// ReadAll drains a reader into a slice
func ReadAll(ctx context.Context, fr *FixReader) ([]telemetry.GpsFix, error) {
	var fixes []telemetry.GpsFix
	for fr.Next(ctx) {
		fixes = append(fixes, *fr.Current())
	}
	if err := fr.Error(); err != nil {
		return nil, err
	}
	return fixes, nil
}
