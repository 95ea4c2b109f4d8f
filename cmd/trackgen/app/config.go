package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/flight-logbook/internal/envelope"
	"github.com/roman-kulish/flight-logbook/internal/geo"
	"github.com/roman-kulish/flight-logbook/internal/logbook"
	"github.com/roman-kulish/flight-logbook/internal/storage"
	"github.com/roman-kulish/flight-logbook/internal/track"
)

const (
	defaultDataDirectory = "data"
	databaseFile         = "logbook.sqlite"
)

// Config represents the main application configuration
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Storage   StorageConfig   `yaml:"storage"`
	Export    ExportConfig    `yaml:"export"`
	Flights   []FlightConfig  `yaml:"flights"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel    slog.Level `yaml:"logLevel"`
	LogFile     string     `yaml:"logFile"`     // Rotated log file written in addition to stdout
	MaxParallel int        `yaml:"maxParallel"` // Flights processed at once, defaults to the number of CPUs
}

// SynthesisConfig tunes the track reconstruction engine
type SynthesisConfig struct {
	ScalingFactor float64      `yaml:"scalingFactor"`
	Engine        track.Config `yaml:"config"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DataDirectory string `yaml:"dataDirectory"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// ExportConfig represents GPX export settings
type ExportConfig struct {
	GPXDirectory string `yaml:"gpxDirectory"` // GPX export is disabled when empty
}

// FlightConfig represents a single flight log to process
type FlightConfig struct {
	Name           string             `yaml:"name"`
	Input          string             `yaml:"input"`
	Format         logbook.Format     `yaml:"format"`
	Departure      *Location          `yaml:"departure"`
	Landing        *Location          `yaml:"landing"`
	InitialHeading *float64           `yaml:"initialHeading"`
	MedianSpeed    *float64           `yaml:"medianSpeed"`
	ScalingFactor  float64            `yaml:"scalingFactor"`
	Envelope       *envelope.Envelope `yaml:"envelope"`
}

// Location is a coordinate written either as a {lat, lon} mapping or as a
// "lat, lon" string, the way locations are noted in flight logs.
type Location geo.Coordinate

func (l *Location) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		c, err := parseLocation(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*l = Location(c)
		return nil

	case yaml.MappingNode:
		var c geo.Coordinate
		if err := value.Decode(&c); err != nil {
			return err
		}
		*l = Location(c)
		return nil

	default:
		return fmt.Errorf("line %d: location must be a mapping or a \"lat, lon\" string", value.Line)
	}
}

func parseLocation(s string) (geo.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("invalid location %q, expected \"lat, lon\"", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}

	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

// Coordinate returns the location as a coordinate, nil when unset
func (l *Location) Coordinate() *geo.Coordinate {
	if l == nil {
		return nil
	}
	c := geo.Coordinate(*l)
	return &c
}

// Plan converts the flight configuration into a processing plan
func (f *FlightConfig) Plan() logbook.Plan {
	return logbook.Plan{
		Name:      f.Name,
		Format:    f.Format,
		Departure: f.Departure.Coordinate(),
		Landing:   f.Landing.Coordinate(),
		Params: track.Params{
			InitialHeading: f.InitialHeading,
			MedianSpeed:    f.MedianSpeed,
			ScalingFactor:  f.ScalingFactor,
			Envelope:       f.Envelope,
		},
	}
}

func (f *FlightConfig) Validate() error {
	var errs []error

	if f.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if f.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if _, ok := logbook.Formats[f.Format]; !ok {
		errs = append(errs, fmt.Errorf("%w: %q", logbook.ErrUnknownFormat, f.Format))
	}
	if f.Format == logbook.FormatTelemetry && (f.Departure == nil || f.Landing == nil) {
		errs = append(errs, errors.New("telemetry logs require departure and landing"))
	}
	if f.Departure != nil {
		if err := f.Departure.Coordinate().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("departure: %w", err))
		}
	}
	if f.Landing != nil {
		if err := f.Landing.Coordinate().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("landing: %w", err))
		}
	}
	if f.MedianSpeed != nil && *f.MedianSpeed <= 0 {
		errs = append(errs, fmt.Errorf("medianSpeed must be positive, %f given", *f.MedianSpeed))
	}
	if f.ScalingFactor < 0 {
		errs = append(errs, fmt.Errorf("scalingFactor must not be negative, %f given", f.ScalingFactor))
	}
	if f.Envelope != nil {
		if err := f.Envelope.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// NewConfig returns a configuration holding the defaults
func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel:    slog.LevelInfo,
			MaxParallel: runtime.NumCPU(),
		},
		Synthesis: SynthesisConfig{
			Engine: track.DefaultConfig(),
		},
		Storage: StorageConfig{
			Enabled:       true,
			DataDirectory: defaultDataDirectory,
			MaxBatchSize:  storage.DefaultMaxBatchSize,
		},
	}
}

// LoadConfig reads the YAML configuration at path over the defaults. Relative
// input, data and export paths are resolved against the directory of the
// configuration file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening configuration: %w", err)
	}
	defer f.Close()

	config := NewConfig()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err = decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	for i := range config.Flights {
		if config.Flights[i].Format == "" {
			config.Flights[i].Format = logbook.FormatAuto
		}
	}
	if config.Synthesis.ScalingFactor > 0 {
		config.Synthesis.Engine.ScalingFactor = config.Synthesis.ScalingFactor
	}
	if config.Settings.MaxParallel <= 0 {
		config.Settings.MaxParallel = runtime.NumCPU()
	}

	config.resolvePaths(filepath.Dir(path))

	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return config, nil
}

func (c *Config) resolvePaths(dir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	resolve(&c.Settings.LogFile)
	resolve(&c.Storage.DataDirectory)
	resolve(&c.Export.GPXDirectory)
	for i := range c.Flights {
		resolve(&c.Flights[i].Input)
	}
}

// DatabasePath returns the path of the SQLite logbook
func (c *StorageConfig) DatabasePath() string {
	dir := c.DataDirectory
	if dir == "" {
		dir = defaultDataDirectory
	}
	return filepath.Join(dir, databaseFile)
}

func (c *Config) Validate() error {
	var errs []error

	if err := c.Synthesis.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("synthesis: %w", err))
	}
	if c.Storage.MaxBatchSize < 0 {
		errs = append(errs, fmt.Errorf("storage: maxBatchSize must not be negative, %d given", c.Storage.MaxBatchSize))
	}

	names := make(map[string]struct{}, len(c.Flights))
	for i := range c.Flights {
		f := &c.Flights[i]
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("flight %d (%s): %w", i, f.Name, err))
		}
		// Flights share the GPX directory, names must stay unique once sanitized
		key := gpxFileName(f.Name)
		if _, ok := names[key]; ok && f.Name != "" {
			errs = append(errs, fmt.Errorf("flight %d: duplicate name %q", i, f.Name))
		}
		names[key] = struct{}{}
	}

	return errors.Join(errs...)
}
