package geom

import (
	"math"
	"strings"
)

// Polyline is an ordered list of coordinates. The first element is the
// anchor and the last one the growth frontier.
type Polyline []Coordinate

// First returns the anchor. It panics on an empty polyline.
func (p Polyline) First() Coordinate {
	return p[0]
}

// Last returns the frontier. It panics on an empty polyline.
func (p Polyline) Last() Coordinate {
	return p[len(p)-1]
}

// Contains2D reports whether any element shares (x, y) with c.
func (p Polyline) Contains2D(c Coordinate) bool {
	for _, e := range p {
		if e.Equals2D(c) {
			return true
		}
	}
	return false
}

// Length is the planar length.
func (p Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i-1].Distance(p[i])
	}
	return total
}

// ElevationRange returns the lowest and highest usable elevations. ok is
// false when no element carries one.
func (p Polyline) ElevationRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range p {
		if !c.HasZ() {
			continue
		}
		ok = true
		lo = math.Min(lo, c.Z)
		hi = math.Max(hi, c.Z)
	}
	return lo, hi, ok
}

// SelfTouching reports whether two elements share (x, y).
func (p Polyline) SelfTouching() bool {
	seen := make(map[Key]struct{}, len(p))
	for _, c := range p {
		if _, dup := seen[c.Key()]; dup {
			return true
		}
		seen[c.Key()] = struct{}{}
	}
	return false
}

// Clone returns a copy that shares no backing array with p.
func (p Polyline) Clone() Polyline {
	out := make(Polyline, len(p))
	copy(out, p)
	return out
}

// WKT renders the polyline as a LINESTRING.
func (p Polyline) WKT() string {
	var b strings.Builder
	b.WriteString("LINESTRING (")
	for i, c := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strings.Trim(c.String(), "()"))
	}
	b.WriteString(")")
	return b.String()
}
