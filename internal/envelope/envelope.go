package envelope

import (
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/flight-logbook/internal/geo"
)

const (
	// DefaultMargin is the distance, in degrees, from a rectangular edge at
	// which steering starts
	DefaultMargin = 0.0001

	DefaultRectangularTurnRate = 30.0 // degrees per evaluation
	DefaultCircularTrigger     = 0.95 // fraction of the radius
	DefaultTangentialOffset    = 45.0 // degrees off the bearing to the centre
	DefaultCircularTurnRate    = 25.0 // degrees per evaluation
)

var ErrInvalidEnvelope = errors.New("invalid flight envelope")

// Limits tunes the steering applied near the envelope boundary
type Limits struct {
	Margin              float64 `yaml:"margin" json:"margin"`
	RectangularTurnRate float64 `yaml:"rectangularTurnRate" json:"rectangularTurnRate"`
	CircularTrigger     float64 `yaml:"circularTrigger" json:"circularTrigger"`
	TangentialOffset    float64 `yaml:"tangentialOffset" json:"tangentialOffset"`
	CircularTurnRate    float64 `yaml:"circularTurnRate" json:"circularTurnRate"`
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{
		Margin:              DefaultMargin,
		RectangularTurnRate: DefaultRectangularTurnRate,
		CircularTrigger:     DefaultCircularTrigger,
		TangentialOffset:    DefaultTangentialOffset,
		CircularTurnRate:    DefaultCircularTurnRate,
	}
}

// Rectangular is a box around the takeoff point, offsets in meters
type Rectangular struct {
	North float64 `yaml:"north" json:"north"`
	South float64 `yaml:"south" json:"south"`
	East  float64 `yaml:"east" json:"east"`
	West  float64 `yaml:"west" json:"west"`
}

// Circular is a disc around the takeoff point
type Circular struct {
	Radius float64 `yaml:"radius" json:"radius"` // Meters
}

// Envelope is the area a reconstructed track has to stay in. At most one of
// the variants is expected to be set; Circular wins when both are.
type Envelope struct {
	Rectangular *Rectangular `yaml:"rectangular,omitempty" json:"rectangular,omitempty"`
	Circular    *Circular    `yaml:"circular,omitempty" json:"circular,omitempty"`
}

// Validate checks an envelope read from configuration
func (e *Envelope) Validate() error {
	switch {
	case e.Rectangular != nil && e.Circular != nil:
		return fmt.Errorf("%w: both rectangular and circular are set", ErrInvalidEnvelope)

	case e.Circular != nil:
		if e.Circular.Radius <= 0 || math.IsNaN(e.Circular.Radius) {
			return fmt.Errorf("%w: radius must be positive, %f given", ErrInvalidEnvelope, e.Circular.Radius)
		}

	case e.Rectangular != nil:
		r := e.Rectangular
		if math.Abs(r.North)+math.Abs(r.South) == 0 || math.Abs(r.East)+math.Abs(r.West) == 0 {
			return fmt.Errorf("%w: rectangle has no area", ErrInvalidEnvelope)
		}
	}
	return nil
}

// Correct evaluates the envelope at the current position. It returns the
// heading to fly and true when a correction is needed, or false when the
// current heading can be kept.
func (e *Envelope) Correct(origin, position geo.Coordinate, heading float64, limits Limits) (float64, bool) {
	if e == nil {
		return heading, false
	}
	if e.Circular != nil {
		return e.Circular.correct(origin, position, heading, limits)
	}
	if e.Rectangular != nil {
		return e.Rectangular.correct(origin, position, heading, limits)
	}
	return heading, false
}
