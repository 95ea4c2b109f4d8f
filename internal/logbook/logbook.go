package logbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/stats"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
	"github.com/roman-kulish/flight-logbook/internal/track"
)

// Format is the layout of a flight log
type Format string

const (
	FormatAuto      Format = "auto"      // GPS track when the header matches, telemetry otherwise
	FormatGPS       Format = "gps"       // GPS track with the fixed column set
	FormatTelemetry Format = "telemetry" // Radio telemetry without positions
)

var ErrUnknownFormat = errors.New("unknown log format")

// Formats lists the supported formats
var Formats = map[Format]struct{}{
	FormatAuto:      {},
	FormatGPS:       {},
	FormatTelemetry: {},
}

// Plan describes how a single flight log is processed
type Plan struct {
	Name      string
	Format    Format
	Departure *geo.Coordinate
	Landing   *geo.Coordinate
	Params    track.Params
}

// Flight is a processed flight log
type Flight struct {
	Name        string
	Format      Format // Format the log was read as, never FormatAuto
	Departure   *geo.Coordinate
	Landing     *geo.Coordinate
	Synthesized bool // Track was reconstructed from telemetry
	Samples     int  // Telemetry samples read, 0 for GPS tracks
	Corrections int

	Track         []geo.Coordinate
	Fixes         []telemetry.GpsFix
	Statistics    stats.Statistics
	TrackLengthKm float64
}

// Process parses a flight log and, for telemetry logs, reconstructs the
// track between the planned departure and landing. GPS logs are taken as
// recorded.
func Process(ctx context.Context, input []byte, plan Plan, synthesizer *track.Synthesizer) (*Flight, error) {
	format := plan.Format
	if format == "" {
		format = FormatAuto
	}
	if _, ok := Formats[format]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if format == FormatAuto || format == FormatGPS {
		fixes, err := telemetry.ParseGPS(bytes.NewReader(input))
		switch {
		case err == nil:
			return fromFixes(plan, fixes), nil

		case format == FormatAuto && errors.Is(err, telemetry.ErrSchemaMismatch):
			// not a GPS track, read it as telemetry

		default:
			return nil, fmt.Errorf("parsing GPS track: %w", err)
		}
	}

	samples, err := telemetry.ParseTelemetry(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parsing telemetry: %w", err)
	}

	if synthesizer == nil {
		synthesizer = track.NewSynthesizer()
	}

	result, err := synthesizer.Synthesize(ctx, plan.Departure, plan.Landing, samples, plan.Params)
	if err != nil {
		return nil, fmt.Errorf("synthesizing track: %w", err)
	}

	return &Flight{
		Name:          plan.Name,
		Format:        FormatTelemetry,
		Departure:     plan.Departure,
		Landing:       plan.Landing,
		Synthesized:   true,
		Samples:       len(samples),
		Corrections:   result.Corrections,
		Track:         result.Track,
		Fixes:         result.Fixes,
		Statistics:    stats.Compute(result.Fixes),
		TrackLengthKm: track.Length(result.Track),
	}, nil
}

func fromFixes(plan Plan, fixes []telemetry.GpsFix) *Flight {
	points := make([]geo.Coordinate, len(fixes))
	for i, fix := range fixes {
		points[i] = geo.Coordinate{Lat: fix.Lat, Lon: fix.Lon}
	}

	departure, landing := plan.Departure, plan.Landing
	if departure == nil {
		departure = &points[0]
	}
	if landing == nil {
		landing = &points[len(points)-1]
	}

	return &Flight{
		Name:          plan.Name,
		Format:        FormatGPS,
		Departure:     departure,
		Landing:       landing,
		Track:         points,
		Fixes:         fixes,
		Statistics:    stats.Compute(fixes),
		TrackLengthKm: track.Length(points),
	}
}
