package geom

import "math"

// Edge is a mesh edge oriented away from the vertex it was queried for.
type Edge struct {
	From, To Coordinate
}

// Far returns the endpoint opposite to the queried vertex.
func (e Edge) Far() Coordinate {
	return e.To
}

// Length is the planar length of the edge.
func (e Edge) Length() float64 {
	return e.From.Distance(e.To)
}

// Bearing is the direction from From to To.
func (e Edge) Bearing() float64 {
	return e.From.Bearing(e.To)
}

// Midpoint is the planar midpoint, with the mean elevation when both ends have one.
func (e Edge) Midpoint() Coordinate {
	m := Coordinate{X: (e.From.X + e.To.X) / 2, Y: (e.From.Y + e.To.Y) / 2, Z: math.NaN()}
	if e.From.HasZ() && e.To.HasZ() {
		m.Z = (e.From.Z + e.To.Z) / 2
	}
	return m
}

// Reversed flips the orientation.
func (e Edge) Reversed() Edge {
	return Edge{From: e.To, To: e.From}
}

// AngleBetween returns the unsigned angle between two bearings, in [0, π].
func AngleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// SignedTurn is positive when bearing b lies counter-clockwise of bearing a.
func SignedTurn(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	switch {
	case d > math.Pi:
		d -= 2 * math.Pi
	case d <= -math.Pi:
		d += 2 * math.Pi
	}
	return d
}
