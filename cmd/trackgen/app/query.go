package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/flight-logbook/internal/export"
	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/stats"
	"github.com/roman-kulish/flight-logbook/internal/storage"
	"github.com/roman-kulish/flight-logbook/internal/track"
)

func openStorage(config *StorageConfig, logger *slog.Logger) (*storage.SqliteStore, error) {
	dbPath := config.DatabasePath()
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening logbook '%s': %w", dbPath, err)
	}
	return storage.NewSqliteStore(dbPath, storage.WithLogger(logger)), nil
}

// List logs every flight stored in the logbook
func List(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := openStorage(&config.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	flights, err := store.Flights(ctx)
	if err != nil {
		return fmt.Errorf("listing flights: %w", err)
	}

	for _, f := range flights {
		attrs := []any{
			slog.Int64("id", f.ID),
			slog.String("name", f.Name),
			slog.String("source", f.Source),
			slog.Bool("synthesized", f.Synthesized),
			slog.String("fixes", humanize.Comma(int64(f.NumFixes))),
			slog.String("created", humanize.Time(f.CreatedAt)),
		}
		if f.Departure != nil {
			attrs = append(attrs, slog.String("departure", f.Departure.String()))
		}
		if f.Landing != nil {
			attrs = append(attrs, slog.String("landing", f.Landing.String()))
		}
		logger.Info("flight", attrs...)
	}

	logger.Info("logbook", slog.Int("flights", len(flights)))
	return nil
}

// ExportFlight reads a stored flight back from the logbook and writes it as
// a GPX file
func ExportFlight(ctx context.Context, config *Config, flightID int64, path string, logger *slog.Logger) error {
	store, err := openStorage(&config.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	reader, err := store.ReadFixes(ctx, flightID)
	if err != nil {
		return fmt.Errorf("reading flight %d: %w", flightID, err)
	}
	defer reader.Close()

	fixes, err := storage.ReadAll(ctx, reader)
	if err != nil {
		return fmt.Errorf("reading fixes of flight %d: %w", flightID, err)
	}

	flight := reader.Flight()
	if path == "" {
		path = gpxFileName(flight.Name)
	}
	if err = export.SaveGPX(path, flight.Name, fixes); err != nil {
		return fmt.Errorf("exporting flight %d: %w", flightID, err)
	}

	points := make([]geo.Coordinate, len(fixes))
	for i, f := range fixes {
		points[i] = geo.Coordinate{Lat: f.Lat, Lon: f.Lon}
	}

	logger.Info("flight exported",
		slog.Int64("id", flightID),
		slog.String("path", path),
		slog.String("fixes", humanize.Comma(int64(len(fixes)))),
		slog.String("length", humanize.SIWithDigits(track.Length(points)*1000, 2, "m")),
		slog.Any("statistics", stats.Compute(fixes)),
	)
	return nil
}
