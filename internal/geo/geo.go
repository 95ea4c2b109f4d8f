package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by all spherical computations
const EarthRadiusKm = 6371.0

// EarthRadiusM is EarthRadiusKm in meters
const EarthRadiusM = EarthRadiusKm * 1000

// Coordinate is a position in decimal degrees
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"` // Latitude in degrees, [-90, 90]
	Lon float64 `json:"lon" yaml:"lon"` // Longitude in degrees, [-180, 180)
}

// NewCoordinate returns a normalized coordinate
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}.Normalize()
}

// Normalize clamps latitude to [-90, 90] and wraps longitude into [-180, 180)
func (c Coordinate) Normalize() Coordinate {
	c.Lat = math.Max(-90, math.Min(90, c.Lat))
	lon := math.Mod(c.Lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	c.Lon = lon - 180
	return c
}

// Validate reports coordinates outside of the valid range
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("coordinate is not a number")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lon)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// DistanceKm returns the haversine great-circle distance between a and b in kilometers
func DistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BearingDeg returns the initial bearing from a to b in [0, 360).
// Identical points have bearing 0.
func BearingDeg(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return NormalizeHeading(degrees(math.Atan2(y, x)))
}

// Destination projects a point distanceKm away from a along the given initial bearing
func Destination(a Coordinate, distanceKm, bearingDeg float64) Coordinate {
	if distanceKm == 0 {
		return a
	}

	delta := distanceKm / EarthRadiusKm
	theta := radians(bearingDeg)
	lat1, lon1 := radians(a.Lat), radians(a.Lon)

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta)
	lat2 := math.Asin(math.Max(-1, math.Min(1, sinLat2)))
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Coordinate{Lat: degrees(lat2), Lon: degrees(lon2)}.Normalize()
}

// MetersToDegrees converts north/east offsets in meters around origin into
// latitude/longitude deltas using a flat-Earth approximation.
func MetersToDegrees(origin Coordinate, north, east float64) (dLat, dLon float64) {
	dLat = north / EarthRadiusM * 180 / math.Pi
	dLon = east / EarthRadiusM * 180 / math.Pi / math.Cos(radians(origin.Lat))
	return
}
