package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	byteOrderMark = "\ufeff"
)

// timeLayouts are tried in order when the time column is not numeric
var timeLayouts = []string{
	"15:04:05.000",
	"15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseTelemetry reads a comma separated telemetry log. The first line names
// the columns, every following line is a sample. Cells are trimmed, numeric
// cells are stored as numbers and everything else as text; empty cells are
// omitted and rows without any non-empty cell are dropped. Rows with more or
// fewer cells than the header are accepted as is.
//
// Malformed content never fails the parse: empty and header-only input
// produce no samples. Only read errors of r are returned.
func ParseTelemetry(r io.Reader) ([]Sample, error) {
	br := bufio.NewReader(r)

	var header []string
	var samples []Sample
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading telemetry: %w", err)
		}
		if line != "" {
			line = strings.TrimRight(line, "\r\n")

			if header == nil {
				line = strings.TrimPrefix(line, byteOrderMark)
				if strings.TrimSpace(line) != "" {
					header = strings.Split(line, ",")
					for i := range header {
						header[i] = strings.TrimSpace(header[i])
					}
				}
			} else if sample, ok := parseSample(header, line, len(samples)); ok {
				samples = append(samples, sample)
			}
		}
		if err != nil {
			break
		}
	}

	return samples, nil
}

// ParseTelemetryString is ParseTelemetry over an in-memory log
func ParseTelemetryString(s string) []Sample {
	samples, _ := ParseTelemetry(strings.NewReader(s)) // strings.Reader never fails
	return samples
}

func parseSample(header []string, line string, index int) (Sample, bool) {
	sample := Sample{
		Index: index,
		Time:  float64(index),
	}

	var populated int
	for i, cell := range strings.Split(line, ",") {
		if i >= len(header) {
			break // no column name to store it under
		}

		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		populated++

		number, isNumber := parseNumber(cell)

		ch := lookupChannel(header[i])
		if ch == chTime {
			if isNumber {
				sample.Time = number
			} else if seconds, ok := parseClock(cell); ok {
				sample.Time = seconds
			}
			continue
		}

		if field := sampleChannel(&sample, ch); field != nil && isNumber {
			*field = &number
			continue
		}

		if sample.Extra == nil {
			sample.Extra = make(map[string]Value)
		}
		if isNumber {
			sample.Extra[header[i]] = Value{Number: &number}
		} else {
			sample.Extra[header[i]] = Value{Text: cell}
		}
	}

	return sample, populated > 0
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseClock converts a time of day into seconds since midnight, or a full
// timestamp into Unix seconds.
func parseClock(s string) (float64, bool) {
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			midnight := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
			return t.Sub(midnight).Seconds(), true
		}
		return float64(t.UnixMilli()) / 1000, true
	}
	return 0, false
}
