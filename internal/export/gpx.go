package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

const creator = "flight-logbook"

// GPX builds a document with a single track and segment holding one point
// per fix. Elevation and satellite count are written when known, the fix
// time only when it is a full RFC 3339 timestamp.
func GPX(name string, fixes []telemetry.GpsFix) *gpx.GPX {
	points := make([]gpx.GPXPoint, 0, len(fixes))
	for _, f := range fixes {
		p := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  f.Lat,
				Longitude: f.Lon,
			},
		}
		if f.Altitude != nil {
			p.Elevation = *gpx.NewNullableFloat64(*f.Altitude)
		}
		if f.Satellites != nil {
			p.Satellites = *gpx.NewNullableInt(*f.Satellites)
		}
		if ts, err := time.Parse(time.RFC3339, f.Time); err == nil {
			p.Timestamp = ts
		}
		points = append(points, p)
	}

	return &gpx.GPX{
		Version: "1.1",
		Creator: creator,
		Name:    name,
		Tracks: []gpx.GPXTrack{
			{
				Name:     name,
				Segments: []gpx.GPXTrackSegment{{Points: points}},
			},
		},
	}
}

// WriteGPX writes fixes as a GPX 1.1 document
func WriteGPX(w io.Writer, name string, fixes []telemetry.GpsFix) error {
	b, err := GPX(name, fixes).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("encoding GPX: %w", err)
	}
	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("writing GPX: %w", err)
	}
	return nil
}

// SaveGPX writes fixes as a GPX file at path, replacing any existing file
func SaveGPX(path, name string, fixes []telemetry.GpsFix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating GPX file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing GPX file: %w", cErr)
		}
	}()

	return WriteGPX(f, name, fixes)
}
