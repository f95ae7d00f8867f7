package growth_test

import (
	"math"

	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// fakeMesh is an adjacency list keyed by 2D position.
type fakeMesh struct {
	adj map[geom.Key][]geom.Coordinate
}

func newFakeMesh() *fakeMesh {
	return &fakeMesh{adj: map[geom.Key][]geom.Coordinate{}}
}

func (m *fakeMesh) link(a, b geom.Coordinate) *fakeMesh {
	m.adj[a.Key()] = append(m.adj[a.Key()], b)
	m.adj[b.Key()] = append(m.adj[b.Key()], a)
	return m
}

func (m *fakeMesh) ConnectedCoordinates(v geom.Coordinate) []geom.Coordinate {
	return m.adj[v.Key()]
}

func (m *fakeMesh) EdgesTouching(v geom.Coordinate) []geom.Edge {
	var out []geom.Edge
	for _, n := range m.adj[v.Key()] {
		out = append(out, geom.Edge{From: v, To: n})
	}
	return out
}

func (m *fakeMesh) CoordinateAt(k geom.Key) (geom.Coordinate, bool) {
	for _, ns := range m.adj {
		for _, n := range ns {
			if n.Key() == k {
				return n, true
			}
		}
	}
	return geom.Coordinate{}, false
}

// fakeWater answers distance queries from fixed tables. Nothing touches
// water unless listed in wet.
type fakeWater struct {
	nearest map[geom.Key]float64
	diff    map[geom.Key]float64
	wet     map[geom.Key]bool
}

func newFakeWater() *fakeWater {
	return &fakeWater{
		nearest: map[geom.Key]float64{},
		diff:    map[geom.Key]float64{},
		wet:     map[geom.Key]bool{},
	}
}

func (w *fakeWater) at(c geom.Coordinate, nearest, diff float64) *fakeWater {
	w.nearest[c.Key()] = nearest
	w.diff[c.Key()] = diff
	return w
}

func (w *fakeWater) Confluences() []geom.Coordinate                 { return nil }
func (w *fakeWater) LakePolygons() []geom.Polygon                   { return nil }
func (w *fakeWater) Lake(geom.Polygon) (growth.WaterRef, bool)      { return "", false }
func (w *fakeWater) IsTouchingWater(c geom.Coordinate) bool         { return w.wet[c.Key()] }
func (w *fakeWater) IsConfluence(geom.Coordinate) bool              { return false }
func (w *fakeWater) IsOverlappingWater(geom.Edge) bool              { return false }
func (w *fakeWater) TouchingWater(any) []growth.WaterRef            { return nil }
func (w *fakeWater) OverlappingWater(any) []growth.WaterRef         { return nil }
func (w *fakeWater) NearestWaterDistance(c geom.Coordinate) float64 { return w.lookup(w.nearest, c) }

func (w *fakeWater) NearestOtherWaterDistance(c geom.Coordinate, _ growth.WaterRef) float64 {
	return w.lookup(w.nearest, c)
}

func (w *fakeWater) DistanceDiffBetweenTwoNearestWaters(c geom.Coordinate) float64 {
	return w.lookup(w.diff, c)
}

func (w *fakeWater) OppositeWater(geom.Coordinate, float64, float64, growth.WaterRef) (geom.Coordinate, growth.WaterRef, bool) {
	return geom.Coordinate{}, "", false
}

func (w *fakeWater) lookup(table map[geom.Key]float64, c geom.Coordinate) float64 {
	if d, ok := table[c.Key()]; ok {
		return d
	}
	return math.Inf(1)
}

// straightStem runs along the x axis from (0,0) to (4,0). Its moving-away
// reference is (3,0), one unit behind the frontier.
func straightStem(frontierZ float64) geom.Polyline {
	return geom.Polyline{
		geom.XYZ(0, 0, 0),
		geom.XYZ(1, 0, 0),
		geom.XYZ(2, 0, 0),
		geom.XYZ(3, 0, 0),
		geom.XYZ(4, 0, frontierZ),
	}
}
