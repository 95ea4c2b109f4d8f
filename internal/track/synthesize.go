package track

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"

	"github.com/roman-kulish/flight-logbook/internal/envelope"
	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/telemetry"
)

// Params describes a single reconstruction
type Params struct {
	InitialHeading *float64           // Degrees, defaults to the bearing from departure to landing
	MedianSpeed    *float64           // km/h, defaults to the median logged GPS speed
	ScalingFactor  float64            // Overrides Config.ScalingFactor when positive
	Envelope       *envelope.Envelope // Optional area the track is steered to stay in
}

// Result is a reconstructed track and the telemetry enriched with it. Track
// and Fixes are parallel.
type Result struct {
	Track       []geo.Coordinate
	Fixes       []telemetry.GpsFix
	Corrections int // Number of samples steered by the envelope
}

// WithConfig replaces the default engine configuration
func WithConfig(config Config) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.config = config
	}
}

// WithLogger sets the logger for the synthesizer
func WithLogger(logger *slog.Logger) func(*Synthesizer) {
	return func(s *Synthesizer) {
		s.logger = logger.With(slog.String("component", "synthesizer"))
	}
}

// Synthesizer reconstructs a plausible ground track from telemetry that has
// no GPS positions, using the takeoff and landing coordinates as anchors.
// It holds no per-run state and can be shared between goroutines.
type Synthesizer struct {
	config Config
	logger *slog.Logger
}

// NewSynthesizer creates a new Synthesizer with the default configuration and a discard logger
func NewSynthesizer(options ...func(*Synthesizer)) *Synthesizer {
	s := Synthesizer{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Config returns the configuration in use
func (s *Synthesizer) Config() Config {
	return s.config
}

// Synthesize runs the default synthesizer without cancellation
func Synthesize(departure, landing *geo.Coordinate, samples []telemetry.Sample, params Params) *Result {
	r, _ := NewSynthesizer().Synthesize(context.Background(), departure, landing, samples, params) // cannot be cancelled
	return r
}

// Synthesize walks the samples in order, integrating a heading from the
// stick and attitude channels and projecting every sample forward from the
// previous position. The track starts exactly at departure and ends exactly
// at landing.
//
// A missing departure, landing or empty telemetry produce an empty result.
// The only error is a cancelled context, checked between samples.
func (s *Synthesizer) Synthesize(ctx context.Context, departure, landing *geo.Coordinate, samples []telemetry.Sample, params Params) (*Result, error) {
	if departure == nil || landing == nil || len(samples) == 0 {
		return &Result{}, nil
	}

	cfg := s.config
	if params.ScalingFactor > 0 {
		cfg.ScalingFactor = params.ScalingFactor
	}

	heading := geo.BearingDeg(*departure, *landing)
	if params.InitialHeading != nil {
		heading = geo.NormalizeHeading(*params.InitialHeading)
	}

	baseSpeed := cfg.DefaultSpeed
	if params.MedianSpeed != nil {
		baseSpeed = *params.MedianSpeed
	} else if median, ok := medianSpeed(samples); ok {
		baseSpeed = median
	}
	baseSpeed = cfg.normalizeSpeed(baseSpeed)

	n := len(samples)
	result := &Result{
		Track: make([]geo.Coordinate, 0, max(n, 2)),
		Fixes: make([]telemetry.GpsFix, 0, max(n, 2)),
	}

	position := *departure
	result.add(samples[0], position, heading, baseSpeed)

	if n == 1 {
		result.add(samples[0], *landing, heading, baseSpeed)
		return result, nil
	}

	for i := 1; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("synthesizing sample %d: %w", i, err)
		}

		prev, cur := &samples[i-1], &samples[i]
		ratio := float64(i) / float64(n-1)

		dt := cfg.interval(prev.Time, cur.Time)

		speed := baseSpeed
		if cur.GPSSpeed != nil {
			speed = *cur.GPSSpeed
		}
		speed = cfg.normalizeSpeed(speed)

		heading = geo.NormalizeHeading(heading + cfg.headingDelta(prev, cur)*cfg.damping(ratio))

		if h, ok := params.Envelope.Correct(*departure, position, heading, cfg.Envelope); ok {
			heading = h
			result.Corrections++
		}

		if ratio > cfg.ApproachStart {
			t := (ratio - cfg.ApproachStart) / (1 - cfg.ApproachStart)

			speed = speed*(1-t) + baseSpeed*cfg.ApproachMinSpeed*t

			strength := cfg.ApproachStrengthStart + (cfg.ApproachStrengthEnd-cfg.ApproachStrengthStart)*t
			turn := geo.HeadingSignedTurn(heading, geo.BearingDeg(position, *landing)) * strength
			turn = clamp(turn, -cfg.ApproachTurnRate, cfg.ApproachTurnRate)
			heading = geo.NormalizeHeading(heading + turn)
		}

		if i == n-1 {
			position = *landing
		} else {
			distance := speed * (dt / 3600) * cfg.ScalingFactor
			position = geo.Destination(position, distance, heading)
		}

		result.add(*cur, position, heading, speed)
	}

	s.logger.Debug("track synthesized",
		slog.Int("samples", n),
		slog.Int("corrections", result.Corrections),
		slog.Float64("lengthKm", Length(result.Track)),
	)

	return result, nil
}

func (r *Result) add(sample telemetry.Sample, position geo.Coordinate, heading, speed float64) {
	r.Track = append(r.Track, position)
	r.Fixes = append(r.Fixes, toFix(sample, position, heading, speed))
}

// interval returns the seconds elapsed between two sample timestamps
func (c Config) interval(prev, cur float64) float64 {
	dt := cur - prev
	if dt > c.MillisecondThreshold {
		dt /= 1000
	}
	if dt == 0 || math.IsNaN(dt) {
		dt = c.NominalInterval
	}
	return clamp(dt, c.MinInterval, c.MaxInterval)
}

// normalizeSpeed converts m/s readings to km/h and clamps to the speed range
func (c Config) normalizeSpeed(speed float64) float64 {
	if speed < c.MetersPerSecondThreshold {
		speed *= 3.6
	}
	return clamp(speed, c.MinSpeed, c.MaxSpeed)
}

// headingDelta is the turn, in degrees, suggested by the control and attitude channels
func (c Config) headingDelta(prev, cur *telemetry.Sample) float64 {
	var delta float64
	if cur.Roll != nil {
		delta += *cur.Roll * c.RollWeight
	}
	if cur.Yaw != nil && prev.Yaw != nil {
		delta += (*cur.Yaw - *prev.Yaw) * c.YawRateWeight
	}
	if cur.Aileron != nil {
		delta += *cur.Aileron * c.AileronWeight
	}
	if cur.Rudder != nil {
		delta += *cur.Rudder * c.RudderWeight
	}
	return delta
}

func (c Config) damping(ratio float64) float64 {
	return c.DampingStart + (c.DampingEnd-c.DampingStart)*ratio
}

func medianSpeed(samples []telemetry.Sample) (float64, bool) {
	var speeds []float64
	for _, s := range samples {
		if s.GPSSpeed != nil {
			speeds = append(speeds, *s.GPSSpeed)
		}
	}
	if len(speeds) == 0 {
		return 0, false
	}

	slices.Sort(speeds)
	mid := len(speeds) / 2
	if len(speeds)%2 == 0 {
		return (speeds[mid-1] + speeds[mid]) / 2, true
	}
	return speeds[mid], true
}

// toFix builds the enriched fix of a sample. Channels missing from the
// sample are reported as 0 rather than absent.
func toFix(s telemetry.Sample, position geo.Coordinate, heading, speed float64) telemetry.GpsFix {
	satellites := 0
	return telemetry.GpsFix{
		Lat:  position.Lat,
		Lon:  position.Lon,
		Time: strconv.FormatFloat(s.Time, 'f', -1, 64),

		Altitude:      orZero(s.GPSAltitude),
		Satellites:    &satellites,
		GroundSpeed:   &speed,
		GroundCourse:  &heading,
		VerticalSpeed: orZero(s.VerticalSpeed),
		Pitch:         orZero(s.Pitch),
		Roll:          orZero(s.Roll),
		Yaw:           orZero(s.Yaw),
		Battery:       orZero(s.Battery),
		Current:       orZero(s.Current),
		Capacity:      orZero(s.Capacity),
		RxQuality:     orZero(s.RxQuality),
		TxQuality:     orZero(s.TxQuality),
		TxPower:       orZero(s.TxPower),
		Aileron:       orZero(s.Aileron),
		Elevator:      orZero(s.Elevator),
		Throttle:      orZero(s.Throttle),
		Rudder:        orZero(s.Rudder),
	}
}

func orZero(v *float64) *float64 {
	var f float64
	if v != nil {
		f = *v
	}
	return &f
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Length returns the length of a track in kilometers
func Length(track []geo.Coordinate) float64 {
	var km float64
	for i := 1; i < len(track); i++ {
		km += geo.DistanceKm(track[i-1], track[i])
	}
	return km
}
