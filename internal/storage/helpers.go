package storage

import (
	"database/sql"
	"errors"

	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func toFixData(flightID, seq int64, f *telemetry.GpsFix) *fixData {
	return &fixData{
		FlightID:  flightID,
		Seq:       seq,
		Latitude:  f.Lat,
		Longitude: f.Lon,

		Time: sql.NullString{
			String: f.Time,
			Valid:  f.Time != "",
		},
		Satellites: sql.NullInt64{
			Int64: toSQLNullType[int64](f.Satellites),
			Valid: f.Satellites != nil,
		},

		Altitude:      toNullFloat64(f.Altitude),
		GroundSpeed:   toNullFloat64(f.GroundSpeed),
		GroundCourse:  toNullFloat64(f.GroundCourse),
		VerticalSpeed: toNullFloat64(f.VerticalSpeed),
		Pitch:         toNullFloat64(f.Pitch),
		Roll:          toNullFloat64(f.Roll),
		Yaw:           toNullFloat64(f.Yaw),
		Battery:       toNullFloat64(f.Battery),
		Current:       toNullFloat64(f.Current),
		Capacity:      toNullFloat64(f.Capacity),
		RxQuality:     toNullFloat64(f.RxQuality),
		TxQuality:     toNullFloat64(f.TxQuality),
		TxPower:       toNullFloat64(f.TxPower),
		Aileron:       toNullFloat64(f.Aileron),
		Elevator:      toNullFloat64(f.Elevator),
		Throttle:      toNullFloat64(f.Throttle),
		Rudder:        toNullFloat64(f.Rudder),
	}
}

func fromFixData(d *fixData) *telemetry.GpsFix {
	f := telemetry.GpsFix{
		Lat: d.Latitude,
		Lon: d.Longitude,

		Altitude:      fromNullFloat64(d.Altitude),
		GroundSpeed:   fromNullFloat64(d.GroundSpeed),
		GroundCourse:  fromNullFloat64(d.GroundCourse),
		VerticalSpeed: fromNullFloat64(d.VerticalSpeed),
		Pitch:         fromNullFloat64(d.Pitch),
		Roll:          fromNullFloat64(d.Roll),
		Yaw:           fromNullFloat64(d.Yaw),
		Battery:       fromNullFloat64(d.Battery),
		Current:       fromNullFloat64(d.Current),
		Capacity:      fromNullFloat64(d.Capacity),
		RxQuality:     fromNullFloat64(d.RxQuality),
		TxQuality:     fromNullFloat64(d.TxQuality),
		TxPower:       fromNullFloat64(d.TxPower),
		Aileron:       fromNullFloat64(d.Aileron),
		Elevator:      fromNullFloat64(d.Elevator),
		Throttle:      fromNullFloat64(d.Throttle),
		Rudder:        fromNullFloat64(d.Rudder),
	}

	if d.Time.Valid {
		f.Time = d.Time.String
	}
	if d.Satellites.Valid {
		n := int(d.Satellites.Int64)
		f.Satellites = &n
	}

	return &f
}

func toFlight(d *flightData) *Flight {
	f := Flight{
		ID:          d.ID,
		CreatedAt:   d.CreatedAt,
		Name:        d.Name,
		Source:      d.Source,
		Synthesized: d.Synthesized,
		NumFixes:    d.NumFixes,
		Departure:   fromNullCoordinate(d.DepartureLat, d.DepartureLon),
		Landing:     fromNullCoordinate(d.LandingLat, d.LandingLon),
	}
	return &f
}

func toNullCoordinate(c *geo.Coordinate) (lat, lon sql.NullFloat64) {
	if c == nil {
		return
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lon, Valid: true}
}

func fromNullCoordinate(lat, lon sql.NullFloat64) *geo.Coordinate {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &geo.Coordinate{Lat: lat.Float64, Lon: lon.Float64}
}

func toNullFloat64(f *float64) sql.NullFloat64 {
	return sql.NullFloat64{
		Float64: toSQLNullType[float64](f),
		Valid:   f != nil,
	}
}

func fromNullFloat64(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

func toSQLNullType[T float64 | int64, Y float64 | int | int64](f *Y) T {
	if f == nil {
		return 0
	}
	return T(*f)
}
