package telemetry

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// gpsColumns are the channels extracted from every GPS log row
var gpsColumns = []channel{
	chAltitude,
	chSpeed,
	chCourse,
	chVerticalSpeed,
	chPitch,
	chRoll,
	chYaw,
	chBattery,
	chCurrent,
	chCapacity,
	chRxQuality,
	chTxQuality,
	chTxPower,
	chAileron,
	chElevator,
	chThrottle,
	chRudder,
}

// ParseGPS reads a GPS track log. Unlike ParseTelemetry the header must match
// GPSHeader exactly. Rows without numeric coordinates are skipped, all other
// fields are optional.
//
// Returns ErrEmptyInput, ErrNoDataRows, a *SchemaMismatchError or
// ErrNoValidFixes when the log cannot produce a track.
func ParseGPS(r io.Reader) ([]GpsFix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading GPS log: %w", err)
	}
	return ParseGPSString(string(data))
}

// ParseGPSString is ParseGPS over an in-memory log
func ParseGPSString(text string) ([]GpsFix, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, ErrNoDataRows
	}

	header := strings.TrimSpace(lines[0])
	if header != GPSHeader {
		return nil, &SchemaMismatchError{Expected: GPSHeader, Actual: header}
	}

	columns := make(map[channel]int)
	for i, name := range strings.Split(header, ",") {
		if ch := lookupChannel(name); ch != chNone {
			if _, ok := columns[ch]; !ok {
				columns[ch] = i
			}
		}
	}

	var fixes []GpsFix
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if fix, ok := parseFix(columns, strings.Split(line, ",")); ok {
			fixes = append(fixes, fix)
		}
	}

	if len(fixes) == 0 {
		return nil, ErrNoValidFixes
	}
	return fixes, nil
}

func parseFix(columns map[channel]int, cells []string) (GpsFix, bool) {
	cell := func(ch channel) string {
		i, ok := columns[ch]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	lat, okLat := parseNumber(cell(chLatitude))
	lon, okLon := parseNumber(cell(chLongitude))
	if !okLat || !okLon {
		return GpsFix{}, false
	}

	fix := GpsFix{
		Lat:  lat,
		Lon:  lon,
		Time: cell(chTime),
	}

	if n, ok := parseCount(cell(chSatellites)); ok {
		fix.Satellites = &n
	}

	for _, ch := range gpsColumns {
		if v, ok := parseNumber(cell(ch)); ok {
			*fixChannel(&fix, ch) = &v
		}
	}

	return fix, true
}

func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0 && n <= math.MaxInt32
	}
	// Some loggers write counts as "12.0"
	if v, ok := parseNumber(s); ok && v == math.Trunc(v) && v >= 0 && v <= math.MaxInt32 {
		return int(v), true
	}
	return 0, false
}
