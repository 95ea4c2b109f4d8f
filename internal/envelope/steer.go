package envelope

import (
	"math"

	"github.com/roman-kulish/flight-logbook/internal/geo"
)

// edge is one side of a rectangular envelope
type edge struct {
	outward  float64 // Cardinal heading that leaves the envelope through this edge
	violated bool
}

// bounds returns the north, south, east and west limits in degrees. Offsets
// are taken as distances from the origin, their sign is ignored.
func (r *Rectangular) bounds(origin geo.Coordinate) (north, south, east, west float64) {
	dNorth, _ := geo.MetersToDegrees(origin, math.Abs(r.North), 0)
	dSouth, _ := geo.MetersToDegrees(origin, math.Abs(r.South), 0)
	_, dEast := geo.MetersToDegrees(origin, 0, math.Abs(r.East))
	_, dWest := geo.MetersToDegrees(origin, 0, math.Abs(r.West))

	return origin.Lat + dNorth, origin.Lat - dSouth, origin.Lon + dEast, origin.Lon - dWest
}

func (r *Rectangular) correct(origin, position geo.Coordinate, heading float64, limits Limits) (float64, bool) {
	north, south, east, west := r.bounds(origin)

	edges := [4]edge{
		{outward: 0, violated: position.Lat >= north-limits.Margin},
		{outward: 90, violated: position.Lon >= east-limits.Margin},
		{outward: 180, violated: position.Lat <= south+limits.Margin},
		{outward: 270, violated: position.Lon <= west+limits.Margin},
	}

	var violated []edge
	for _, e := range edges {
		if e.violated {
			violated = append(violated, e)
		}
	}
	if len(violated) == 0 {
		return heading, false
	}

	var target float64
	if len(violated) == 1 && geo.HeadingDifference(heading, violated[0].outward) < 90 {
		target = geo.OppositeHeading(violated[0].outward)
	} else {
		center := geo.Coordinate{Lat: (north + south) / 2, Lon: (east + west) / 2}
		target = geo.BearingDeg(position, center)
	}

	return geo.TurnToward(heading, target, limits.RectangularTurnRate), true
}

// correct steers back toward the centre once the position is past the
// trigger radius and the heading points outward. The target is offset from
// the direct bearing to the centre on the side the aircraft is already
// turning to, so the track curves back in instead of reversing.
func (c *Circular) correct(origin, position geo.Coordinate, heading float64, limits Limits) (float64, bool) {
	radiusKm := c.Radius / 1000
	if geo.DistanceKm(origin, position) <= radiusKm*limits.CircularTrigger {
		return heading, false
	}

	toCenter := geo.BearingDeg(position, origin)
	if geo.HeadingDifference(heading, toCenter) <= 90 {
		return heading, false
	}

	offset := limits.TangentialOffset
	if geo.HeadingSignedTurn(toCenter, heading) < 0 {
		offset = -offset
	}
	target := geo.NormalizeHeading(toCenter + offset)

	return geo.TurnToward(heading, target, limits.CircularTurnRate), true
}
