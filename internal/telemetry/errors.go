package telemetry

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a GPS log contains no text
	ErrEmptyInput = errors.New("empty input")

	// ErrNoDataRows is returned when a GPS log has a header but no rows
	ErrNoDataRows = errors.New("no data rows")

	// ErrSchemaMismatch matches any *SchemaMismatchError
	ErrSchemaMismatch = errors.New("header does not match the expected schema")

	// ErrNoValidFixes is returned when no row of a GPS log has usable coordinates
	ErrNoValidFixes = errors.New("no valid GPS fixes")
)

// SchemaMismatchError is returned when the header of a GPS log differs from GPSHeader
type SchemaMismatchError struct {
	Expected string
	Actual   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: expected '%s', got '%s'", ErrSchemaMismatch, e.Expected, e.Actual)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
