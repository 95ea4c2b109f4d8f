package track

import (
	"errors"
	"fmt"

	"github.com/roman-kulish/flight-logbook/internal/envelope"
)

// Config holds the tuning constants of the synthesis engine. The defaults
// reproduce logs recorded by a radio at roughly 3 Hz.
type Config struct {
	DefaultSpeed    float64 `yaml:"defaultSpeed" json:"defaultSpeed"`       // km/h, used without speed telemetry
	ScalingFactor   float64 `yaml:"scalingFactor" json:"scalingFactor"`     // Shrinks travelled distance to the logged area
	NominalInterval float64 `yaml:"nominalInterval" json:"nominalInterval"` // Seconds between samples without timestamps

	MillisecondThreshold float64 `yaml:"millisecondThreshold" json:"millisecondThreshold"` // Larger time deltas are milliseconds
	MinInterval          float64 `yaml:"minInterval" json:"minInterval"`                   // Seconds
	MaxInterval          float64 `yaml:"maxInterval" json:"maxInterval"`                   // Seconds

	MetersPerSecondThreshold float64 `yaml:"metersPerSecondThreshold" json:"metersPerSecondThreshold"` // Lower speeds are m/s
	MinSpeed                 float64 `yaml:"minSpeed" json:"minSpeed"`                                 // km/h
	MaxSpeed                 float64 `yaml:"maxSpeed" json:"maxSpeed"`                                 // km/h

	RollWeight    float64 `yaml:"rollWeight" json:"rollWeight"`
	YawRateWeight float64 `yaml:"yawRateWeight" json:"yawRateWeight"`
	AileronWeight float64 `yaml:"aileronWeight" json:"aileronWeight"`
	RudderWeight  float64 `yaml:"rudderWeight" json:"rudderWeight"`

	// Control inputs are damped linearly from DampingStart to DampingEnd over the flight
	DampingStart float64 `yaml:"dampingStart" json:"dampingStart"`
	DampingEnd   float64 `yaml:"dampingEnd" json:"dampingEnd"`

	ApproachStart         float64 `yaml:"approachStart" json:"approachStart"`                 // Progress ratio at which the final approach begins
	ApproachMinSpeed      float64 `yaml:"approachMinSpeed" json:"approachMinSpeed"`           // Fraction of the base speed at touchdown
	ApproachStrengthStart float64 `yaml:"approachStrengthStart" json:"approachStrengthStart"` // Share of the course error corrected per step
	ApproachStrengthEnd   float64 `yaml:"approachStrengthEnd" json:"approachStrengthEnd"`
	ApproachTurnRate      float64 `yaml:"approachTurnRate" json:"approachTurnRate"` // Degrees per step

	Envelope envelope.Limits `yaml:"envelope" json:"envelope"`
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		DefaultSpeed:    20,
		ScalingFactor:   0.025,
		NominalInterval: 1.0 / 3,

		MillisecondThreshold: 10000,
		MinInterval:          0.1,
		MaxInterval:          10,

		MetersPerSecondThreshold: 5,
		MinSpeed:                 5,
		MaxSpeed:                 120,

		RollWeight:    0.01,
		YawRateWeight: 0.5,
		AileronWeight: 0.03,
		RudderWeight:  0.04,

		DampingStart: 1.0,
		DampingEnd:   0.3,

		ApproachStart:         0.8,
		ApproachMinSpeed:      0.02,
		ApproachStrengthStart: 0.2,
		ApproachStrengthEnd:   0.5,
		ApproachTurnRate:      15,

		Envelope: envelope.DefaultLimits(),
	}
}

// Validate rejects configurations the engine cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.DefaultSpeed <= 0 {
		errs = append(errs, fmt.Errorf("defaultSpeed must be positive, %f given", c.DefaultSpeed))
	}
	if c.ScalingFactor <= 0 {
		errs = append(errs, fmt.Errorf("scalingFactor must be positive, %f given", c.ScalingFactor))
	}
	if c.MinInterval <= 0 || c.MinInterval > c.MaxInterval {
		errs = append(errs, fmt.Errorf("invalid interval range [%f, %f]", c.MinInterval, c.MaxInterval))
	}
	if c.MinSpeed <= 0 || c.MinSpeed > c.MaxSpeed {
		errs = append(errs, fmt.Errorf("invalid speed range [%f, %f]", c.MinSpeed, c.MaxSpeed))
	}
	if c.ApproachStart <= 0 || c.ApproachStart >= 1 {
		errs = append(errs, fmt.Errorf("approachStart must be in (0, 1), %f given", c.ApproachStart))
	}
	return errors.Join(errs...)
}
