package waterindex

import (
	"math"

	geo "github.com/paulmach/go.geo"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// River is an input linestring.
type River struct {
	Name   string
	Coords []geom.Coordinate
}

// Lake is an input polygon ring.
type Lake struct {
	Name string
	Ring []geom.Coordinate
}

type segment struct {
	a, b geom.Coordinate
	line *geo.Line
}

type feature struct {
	ref  growth.WaterRef
	lake bool
	line geom.Polyline
	ring geom.Polygon
	segs []segment
}

func newFeature(ref growth.WaterRef, line geom.Polyline, lake bool) *feature {
	f := &feature{ref: ref, lake: lake, line: line}
	if lake {
		f.ring = geom.NewPolygon(line)
		f.line = f.ring.Ring()
	}
	for i := 1; i < len(f.line); i++ {
		a, b := f.line[i-1], f.line[i]
		f.segs = append(f.segs, segment{a: a, b: b, line: geo.NewLine(toPoint(a), toPoint(b))})
	}
	return f
}

func toPoint(c geom.Coordinate) *geo.Point {
	return geo.NewPoint(c.X, c.Y)
}

// distance is zero inside a lake.
func (f *feature) distance(c geom.Coordinate) float64 {
	if f.lake && f.ring.Contains(c) {
		return 0
	}
	p := toPoint(c)
	d := math.Inf(1)
	for _, s := range f.segs {
		d = math.Min(d, s.line.DistanceFrom(p))
	}
	return d
}

// segmentDistance is the planar distance between the feature and segment ab.
func (f *feature) segmentDistance(a, b geom.Coordinate) float64 {
	if f.lake && (f.ring.Contains(a) || f.ring.Contains(b)) {
		return 0
	}
	seg := geo.NewLine(toPoint(a), toPoint(b))
	d := math.Inf(1)
	for _, s := range f.segs {
		// Intersection reports every collinear pair, overlapping or not.
		if s.line.Intersects(seg) {
			return 0
		}
		d = math.Min(d, s.line.DistanceFrom(toPoint(a)))
		d = math.Min(d, s.line.DistanceFrom(toPoint(b)))
		d = math.Min(d, seg.DistanceFrom(toPoint(s.a)))
		d = math.Min(d, seg.DistanceFrom(toPoint(s.b)))
	}
	return d
}

// onBoundary reports whether c lies within tol of the feature's line work.
func (f *feature) onBoundary(c geom.Coordinate, tol float64) bool {
	p := toPoint(c)
	for _, s := range f.segs {
		if s.line.DistanceFrom(p) <= tol {
			return true
		}
	}
	return false
}

// runsAlong reports whether the whole segment ab lies on the feature: on
// the line work for rivers, on or inside the ring for lakes.
func (f *feature) runsAlong(a, b geom.Coordinate, tol float64) bool {
	mid := geom.Edge{From: a, To: b}.Midpoint()
	for _, c := range []geom.Coordinate{a, mid, b} {
		if f.onBoundary(c, tol) {
			continue
		}
		if f.lake && f.ring.Contains(c) {
			continue
		}
		return false
	}
	return true
}

// overlapsArea reports whether lake f and ring p share an areal portion:
// a vertex of one strictly inside the other, or identical boundaries.
func (f *feature) overlapsArea(p geom.Polygon, tol float64) bool {
	if !f.lake || len(p) < 3 {
		return false
	}
	for _, c := range f.ring {
		if p.Contains(c) {
			return true
		}
	}
	for _, c := range p {
		if f.ring.Contains(c) {
			return true
		}
	}
	for _, c := range p {
		if !f.onBoundary(c, tol) {
			return false
		}
	}
	return true
}
