package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/roman-kulish/flight-logbook/internal/export"
	"github.com/roman-kulish/flight-logbook/internal/logbook"
	"github.com/roman-kulish/flight-logbook/internal/storage"
	"github.com/roman-kulish/flight-logbook/internal/track"
)

// Run processes every configured flight, stores the results and exports
// GPX tracks. Flights are processed in parallel; the first failure cancels
// the remaining flights and is returned.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if len(config.Flights) == 0 {
		return errors.New("no flights specified in configuration")
	}

	var store storage.Store
	if config.Storage.Enabled {
		s, err := createStorage(&config.Storage, logger)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				logger.Error("failed to close storage", slog.Any("error", err))
			}
		}()
		store = s
	}

	if config.Export.GPXDirectory != "" {
		if err := os.MkdirAll(config.Export.GPXDirectory, 0o755); err != nil {
			return fmt.Errorf("failed to create GPX directory: %w", err)
		}
	}

	synthesizer := track.NewSynthesizer(
		track.WithConfig(config.Synthesis.Engine),
		track.WithLogger(logger),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Settings.MaxParallel)

	for i := range config.Flights {
		fc := &config.Flights[i]
		g.Go(func() error {
			if err := processFlight(ctx, fc, synthesizer, store, &config.Export, logger); err != nil {
				return fmt.Errorf("flight %s: %w", fc.Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func processFlight(ctx context.Context, fc *FlightConfig, synthesizer *track.Synthesizer, store storage.Store, exportConfig *ExportConfig, logger *slog.Logger) error {
	logger = logger.With(slog.String("flight", fc.Name))

	input, err := os.ReadFile(fc.Input)
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}

	logger.Debug("processing flight log", slog.String("input", fc.Input), slog.String("size", humanize.Bytes(uint64(len(input)))))

	flight, err := logbook.Process(ctx, input, fc.Plan(), synthesizer)
	if err != nil {
		return err
	}

	if len(flight.Fixes) == 0 {
		logger.Warn("flight produced no track", slog.Int("samples", flight.Samples))
		return nil
	}

	if store != nil {
		flightID, err := store.CreateFlight(ctx, flight.Name, fc.Input, flight.Departure, flight.Landing, flight.Synthesized)
		if err != nil {
			return fmt.Errorf("storing flight: %w", err)
		}
		if err = store.StoreFixes(ctx, flightID, flight.Fixes); err != nil {
			return fmt.Errorf("storing fixes: %w", err)
		}
		logger = logger.With(slog.Int64("flightID", flightID))
	}

	if exportConfig.GPXDirectory != "" {
		path := filepath.Join(exportConfig.GPXDirectory, gpxFileName(flight.Name))
		if err = export.SaveGPX(path, flight.Name, flight.Fixes); err != nil {
			return fmt.Errorf("exporting GPX: %w", err)
		}
		logger.Debug("GPX exported", slog.String("path", path))
	}

	logger.Info("flight processed",
		slog.String("format", string(flight.Format)),
		slog.Bool("synthesized", flight.Synthesized),
		slog.String("fixes", humanize.Comma(int64(len(flight.Fixes)))),
		slog.String("length", humanize.SIWithDigits(flight.TrackLengthKm*1000, 2, "m")),
		slog.Int("corrections", flight.Corrections),
		slog.Any("statistics", flight.Statistics),
	)

	return nil
}

// gpxFileName turns a flight name into a file name
func gpxFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
	return name + ".gpx"
}

func createStorage(config *StorageConfig, logger *slog.Logger) (*storage.SqliteStore, error) {
	dbPath := config.DatabasePath()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return storage.NewSqliteStore(dbPath,
		storage.WithMaxBatchSize(config.MaxBatchSize),
		storage.WithLogger(logger),
	), nil
}
