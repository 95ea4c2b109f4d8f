package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

// DefaultMaxBatchSize is the number of fixes written by one INSERT statement
const DefaultMaxBatchSize = 500

// maxVariables is the SQLite bound parameter limit of the bundled library
const maxVariables = 32766

var _ Store = (*SqliteStore)(nil)

// WithMaxBatchSize sets the number of fixes written by one INSERT statement
func WithMaxBatchSize(n int) func(*SqliteStore) {
	return func(s *SqliteStore) {
		s.maxBatchSize = n
	}
}

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) func(*SqliteStore) {
	return func(s *SqliteStore) {
		s.logger = logger.With(slog.String("component", "store"))
	}
}

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath       string
	maxBatchSize int
	logger       *slog.Logger

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the SQLite database at dbPath.
// Connections are opened and the schema is initialized on first use.
func NewSqliteStore(dbPath string, options ...func(*SqliteStore)) *SqliteStore {
	s := SqliteStore{
		dbPath:       dbPath,
		maxBatchSize: DefaultMaxBatchSize,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	if s.maxBatchSize <= 0 {
		s.maxBatchSize = DefaultMaxBatchSize
	}
	s.maxBatchSize = min(s.maxBatchSize, maxVariables/fixColumns)

	return &s
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1&_txlock=immediate"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}
		// SQLite allows a single writer, concurrent flights queue on the pool
		db.SetMaxOpenConns(1)

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateFlight(ctx context.Context, name, source string, departure, landing *geo.Coordinate, synthesized bool) (flightID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertFlightSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	depLat, depLon := toNullCoordinate(departure)
	landLat, landLon := toNullCoordinate(landing)

	result, err := stmt.ExecContext(ctx, name, source, depLat, depLon, landLat, landLon, synthesized)
	if err != nil {
		err = fmt.Errorf("inserting flight: %w", err)
		return
	}

	flightID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting flight ID: %w", err)
	}
	return
}

func scanFlight(row interface{ Scan(...any) error }) (*Flight, error) {
	var d flightData
	err := row.Scan(
		&d.ID,
		&d.CreatedAt,
		&d.Name,
		&d.Source,
		&d.DepartureLat,
		&d.DepartureLon,
		&d.LandingLat,
		&d.LandingLon,
		&d.Synthesized,
		&d.NumFixes,
	)
	if err != nil {
		return nil, err
	}
	return toFlight(&d), nil
}

func (s *SqliteStore) Flight(ctx context.Context, id int64) (flight *Flight, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectFlightSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	if flight, err = scanFlight(stmt.QueryRowContext(ctx, id)); err != nil {
		err = fmt.Errorf("scanning flight: %w", err)
	}
	return
}

func (s *SqliteStore) Flights(ctx context.Context) (flights []*Flight, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectFlightsSQL)
	if err != nil {
		err = fmt.Errorf("querying flights: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var f *Flight
		if f, err = scanFlight(rows); err != nil {
			err = fmt.Errorf("scanning flight: %w", err)
			return
		}
		flights = append(flights, f)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating flights: %w", err)
	}
	return
}

func (s *SqliteStore) StoreFixes(ctx context.Context, flightID int64, fixes []telemetry.GpsFix) (err error) {
	if len(fixes) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	var seq int64
	if err = tx.QueryRowContext(ctx, selectNextSeqSQL, flightID).Scan(&seq); err != nil {
		return fmt.Errorf("reading fix sequence: %w", err)
	}

	var batches int
	for start := 0; start < len(fixes); start += s.maxBatchSize {
		end := min(start+s.maxBatchSize, len(fixes))

		values := make([]any, 0, (end-start)*fixColumns)

		var sb strings.Builder
		sb.WriteString(insertFixesSQL)

		for i := start; i < end; i++ {
			values = append(values, toFixData(flightID, seq, &fixes[i]).values()...)
			seq++

			if i > start {
				sb.WriteString(", ")
			}
			sb.WriteString(fixValuesPlaceholder)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting fixes: %w", err)
		}
		batches++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("fixes stored",
		slog.Int64("flightID", flightID),
		slog.Int("fixes", len(fixes)),
		slog.Int("batches", batches),
	)

	return nil
}

// ReadFixes creates a FixReader over the fixes of a flight in the order they
// were stored. The reader must be closed after use. Each reader should only
// be used from a single goroutine.
func (s *SqliteStore) ReadFixes(ctx context.Context, flightID int64, opts ...ReaderOption) (*FixReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newFixReader(ctx, db, flightID, opts...)
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			if err := runSQLCommand(s.writeDB, initIndexesSQL); err != nil {
				s.logger.Warn("failed to create indexes", slog.Any("error", err))
			}

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
