package storage

import (
	"database/sql"
	"time"

	"github.com/roman-kulish/flight-logbook/internal/geo"
)

// Flight is a stored flight
type Flight struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	Name        string          `json:"name"`
	Source      string          `json:"source"` // Log file the flight was read from
	Departure   *geo.Coordinate `json:"departure,omitempty"`
	Landing     *geo.Coordinate `json:"landing,omitempty"`
	Synthesized bool            `json:"synthesized"`
	NumFixes    int             `json:"numFixes"`
}

type flightData struct {
	ID           int64
	CreatedAt    time.Time
	Name         string
	Source       string
	DepartureLat sql.NullFloat64
	DepartureLon sql.NullFloat64
	LandingLat   sql.NullFloat64
	LandingLon   sql.NullFloat64
	Synthesized  bool
	NumFixes     int
}

type fixData struct {
	FlightID      int64
	Seq           int64
	Time          sql.NullString
	Latitude      float64
	Longitude     float64
	Altitude      sql.NullFloat64
	Satellites    sql.NullInt64
	GroundSpeed   sql.NullFloat64
	GroundCourse  sql.NullFloat64
	VerticalSpeed sql.NullFloat64
	Pitch         sql.NullFloat64
	Roll          sql.NullFloat64
	Yaw           sql.NullFloat64
	Battery       sql.NullFloat64
	Current       sql.NullFloat64
	Capacity      sql.NullFloat64
	RxQuality     sql.NullFloat64
	TxQuality     sql.NullFloat64
	TxPower       sql.NullFloat64
	Aileron       sql.NullFloat64
	Elevator      sql.NullFloat64
	Throttle      sql.NullFloat64
	Rudder        sql.NullFloat64
}

// values returns the row in insertFixesSQL column order
func (d *fixData) values() []any {
	return []any{
		d.FlightID,
		d.Seq,
		d.Time,
		d.Latitude,
		d.Longitude,
		d.Altitude,
		d.Satellites,
		d.GroundSpeed,
		d.GroundCourse,
		d.VerticalSpeed,
		d.Pitch,
		d.Roll,
		d.Yaw,
		d.Battery,
		d.Current,
		d.Capacity,
		d.RxQuality,
		d.TxQuality,
		d.TxPower,
		d.Aileron,
		d.Elevator,
		d.Throttle,
		d.Rudder,
	}
}

// scanTargets returns the destinations in selectFixesSQL column order
func (d *fixData) scanTargets() []any {
	return []any{
		&d.Seq,
		&d.Time,
		&d.Latitude,
		&d.Longitude,
		&d.Altitude,
		&d.Satellites,
		&d.GroundSpeed,
		&d.GroundCourse,
		&d.VerticalSpeed,
		&d.Pitch,
		&d.Roll,
		&d.Yaw,
		&d.Battery,
		&d.Current,
		&d.Capacity,
		&d.RxQuality,
		&d.TxQuality,
		&d.TxPower,
		&d.Aileron,
		&d.Elevator,
		&d.Throttle,
		&d.Rudder,
	}
}
