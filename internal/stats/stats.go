package stats

import (
	"fmt"
	"log/slog"

	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

// Range is the observed minimum and maximum of a field
type Range[T float64 | int] struct {
	Min T `json:"min"`
	Max T `json:"max"`
}

func (r *Range[T]) update(v T) *Range[T] {
	if r == nil {
		return &Range[T]{Min: v, Max: v}
	}
	r.Min = min(r.Min, v)
	r.Max = max(r.Max, v)
	return r
}

// Statistics summarises a flight track. A nil range means no fix carried the
// field, which is distinct from a zero reading.
type Statistics struct {
	Altitude      *Range[float64] `json:"altitude,omitempty"`      // Meters
	GroundSpeed   *Range[float64] `json:"groundSpeed,omitempty"`   // km/h
	VerticalSpeed *Range[float64] `json:"verticalSpeed,omitempty"` // m/s
	Satellites    *Range[int]     `json:"satellites,omitempty"`
}

// Compute folds fixes into their statistics in a single pass
func Compute(fixes []telemetry.GpsFix) Statistics {
	var s Statistics
	for _, f := range fixes {
		if f.Altitude != nil {
			s.Altitude = s.Altitude.update(*f.Altitude)
		}
		if f.GroundSpeed != nil {
			s.GroundSpeed = s.GroundSpeed.update(*f.GroundSpeed)
		}
		if f.VerticalSpeed != nil {
			s.VerticalSpeed = s.VerticalSpeed.update(*f.VerticalSpeed)
		}
		if f.Satellites != nil {
			s.Satellites = s.Satellites.update(*f.Satellites)
		}
	}
	return s
}

// LogValue renders the statistics as a slog group, omitting absent ranges
func (s Statistics) LogValue() slog.Value {
	var attrs []slog.Attr
	if s.Altitude != nil {
		attrs = append(attrs, slog.String("altitude", fmt.Sprintf("%.1f..%.1fm", s.Altitude.Min, s.Altitude.Max)))
	}
	if s.GroundSpeed != nil {
		attrs = append(attrs, slog.String("speed", fmt.Sprintf("%.1f..%.1fkm/h", s.GroundSpeed.Min, s.GroundSpeed.Max)))
	}
	if s.VerticalSpeed != nil {
		attrs = append(attrs, slog.String("vspeed", fmt.Sprintf("%.1f..%.1fm/s", s.VerticalSpeed.Min, s.VerticalSpeed.Max)))
	}
	if s.Satellites != nil {
		attrs = append(attrs, slog.String("satellites", fmt.Sprintf("%d..%d", s.Satellites.Min, s.Satellites.Max)))
	}
	return slog.GroupValue(attrs...)
}
