package geo

import "math"

// NormalizeHeading reduces h to [0, 360)
func NormalizeHeading(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 { // -1e-15 + 360 rounds up
		h = 0
	}
	return h
}

// HeadingDifference returns the unsigned angle between two headings, in [0, 180]
func HeadingDifference(a, b float64) float64 {
	d := NormalizeHeading(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the shortest signed turn from one heading to
// another, in (-180, 180]. Positive values are clockwise (right) turns.
func HeadingSignedTurn(from, to float64) float64 {
	d := NormalizeHeading(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}

// TurnToward turns from the current heading toward target along the shortest
// path, by at most maxStep degrees.
func TurnToward(from, to, maxStep float64) float64 {
	turn := HeadingSignedTurn(from, to)
	turn = math.Max(-maxStep, math.Min(maxStep, turn))
	return NormalizeHeading(from + turn)
}

// OppositeHeading returns the reciprocal of h
func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}
