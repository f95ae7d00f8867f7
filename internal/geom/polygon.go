package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polygon is a simple ring. The closing vertex is not repeated.
type Polygon []Coordinate

// NewPolygon drops a repeated closing vertex if present.
func NewPolygon(ring []Coordinate) Polygon {
	if n := len(ring); n > 1 && ring[0].Equals2D(ring[n-1]) {
		ring = ring[:n-1]
	}
	return Polygon(ring)
}

// Vertex returns the i-th vertex, wrapping around the ring.
func (p Polygon) Vertex(i int) Coordinate {
	n := len(p)
	return p[((i%n)+n)%n]
}

// SignedArea is positive for counter-clockwise rings.
func (p Polygon) SignedArea() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return a / 2
}

// Contains reports whether c lies strictly inside the ring (even-odd rule).
// Points on the boundary may land on either side.
func (p Polygon) Contains(c Coordinate) bool {
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > c.Y) != (b.Y > c.Y) {
			x := (b.X-a.X)*(c.Y-a.Y)/(b.Y-a.Y) + a.X
			if c.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Ring returns the closed boundary as a polyline.
func (p Polygon) Ring() Polyline {
	out := make(Polyline, 0, len(p)+1)
	out = append(out, p...)
	if len(p) > 0 {
		out = append(out, p[0])
	}
	return out
}

// OutwardNormal returns the unit direction pointing out of the ring at
// vertex i, derived from the neighbouring vertices. ok is false for a
// degenerate neighbourhood.
func (p Polygon) OutwardNormal(i int) (r2.Point, bool) {
	if len(p) < 3 {
		return r2.Point{}, false
	}
	tangent := p.Vertex(i + 1).Point().Sub(p.Vertex(i - 1).Point())
	if tangent.Norm() == 0 {
		return r2.Point{}, false
	}
	// Ortho turns left; the left side of a counter-clockwise ring is inside.
	n := tangent.Ortho().Normalize()
	if p.SignedArea() > 0 {
		n = n.Mul(-1)
	}
	probe := p.Vertex(i).Point().Add(n.Mul(1e-6 * math.Max(1, tangent.Norm())))
	if p.Contains(FromPoint(probe)) {
		n = n.Mul(-1)
	}
	return n, true
}
