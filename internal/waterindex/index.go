package waterindex

import (
	"errors"
	"fmt"
	"math"
	"slices"

	geo "github.com/paulmach/go.geo"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// DefaultTolerance is the distance under which a point touches water.
const DefaultTolerance = 1e-9

// Option customises an Index.
type Option func(*Index)

// WithTolerance sets the touching tolerance.
func WithTolerance(tol float64) Option {
	return func(ix *Index) {
		ix.tol = math.Abs(tol)
	}
}

type lakeKey struct {
	first geom.Key
	n     int
}

// Index is the in-memory water network.
type Index struct {
	tol         float64
	features    []*feature
	byRef       map[growth.WaterRef]*feature
	confluences []geom.Coordinate
	isConfl     map[geom.Key]struct{}
	lakes       []geom.Polygon
	lakeRefs    map[lakeKey]growth.WaterRef
	extent      float64
}

// New indexes rivers and lakes. River names and lake names share one
// namespace and must be unique.
func New(rivers []River, lakes []Lake, opts ...Option) (*Index, error) {
	ix := &Index{
		tol:      DefaultTolerance,
		byRef:    make(map[growth.WaterRef]*feature),
		isConfl:  make(map[geom.Key]struct{}),
		lakeRefs: make(map[lakeKey]growth.WaterRef),
	}
	for _, opt := range opts {
		opt(ix)
	}

	names := make(map[string]struct{})
	claim := func(name string) error {
		if name == "" {
			return errors.New("water feature without a name")
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("duplicate water feature name %q", name)
		}
		names[name] = struct{}{}
		return nil
	}

	degree := make(map[geom.Key]int)
	for _, r := range rivers {
		if err := claim(r.Name); err != nil {
			return nil, err
		}
		if len(r.Coords) < 2 {
			return nil, fmt.Errorf("river %q needs at least 2 coordinates, got %d", r.Name, len(r.Coords))
		}
		for i := 1; i < len(r.Coords); i++ {
			degree[r.Coords[i-1].Key()]++
			degree[r.Coords[i].Key()]++
		}
	}
	for _, r := range rivers {
		for _, c := range r.Coords {
			if _, seen := ix.isConfl[c.Key()]; !seen && degree[c.Key()] >= 3 {
				ix.isConfl[c.Key()] = struct{}{}
				ix.confluences = append(ix.confluences, c)
			}
		}
	}

	for _, r := range rivers {
		arms := ix.splitAtConfluences(r.Coords)
		for i, arm := range arms {
			ref := growth.WaterRef(r.Name)
			if len(arms) > 1 {
				ref = growth.WaterRef(fmt.Sprintf("%s#%d", r.Name, i+1))
			}
			ix.add(newFeature(ref, arm, false))
		}
	}

	for _, l := range lakes {
		if err := claim(l.Name); err != nil {
			return nil, err
		}
		ring := geom.NewPolygon(l.Ring)
		if len(ring) < 3 {
			return nil, fmt.Errorf("lake %q needs at least 3 distinct vertices, got %d", l.Name, len(ring))
		}
		ref := growth.WaterRef(l.Name)
		ix.add(newFeature(ref, geom.Polyline(ring), true))
		ix.lakes = append(ix.lakes, ring)
		ix.lakeRefs[lakeKey{first: ring[0].Key(), n: len(ring)}] = ref
	}

	ix.extent = ix.computeExtent()
	return ix, nil
}

func (ix *Index) add(f *feature) {
	ix.features = append(ix.features, f)
	ix.byRef[f.ref] = f
}

func (ix *Index) splitAtConfluences(coords []geom.Coordinate) []geom.Polyline {
	var arms []geom.Polyline
	start := 0
	for i := 1; i < len(coords)-1; i++ {
		if _, ok := ix.isConfl[coords[i].Key()]; ok {
			arms = append(arms, slices.Clone(geom.Polyline(coords[start:i+1])))
			start = i
		}
	}
	return append(arms, slices.Clone(geom.Polyline(coords[start:])))
}

func (ix *Index) computeExtent() float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range ix.features {
		for _, c := range f.line {
			minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
			minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
		}
	}
	if len(ix.features) == 0 {
		return 0
	}
	return math.Hypot(maxX-minX, maxY-minY)
}

// Features returns every feature handle in index order.
func (ix *Index) Features() []growth.WaterRef {
	out := make([]growth.WaterRef, 0, len(ix.features))
	for _, f := range ix.features {
		out = append(out, f.ref)
	}
	return out
}

func (ix *Index) Confluences() []geom.Coordinate {
	return slices.Clone(ix.confluences)
}

func (ix *Index) LakePolygons() []geom.Polygon {
	return slices.Clone(ix.lakes)
}

func (ix *Index) Lake(p geom.Polygon) (growth.WaterRef, bool) {
	if len(p) == 0 {
		return "", false
	}
	ref, ok := ix.lakeRefs[lakeKey{first: p[0].Key(), n: len(p)}]
	return ref, ok
}

func (ix *Index) IsConfluence(c geom.Coordinate) bool {
	_, ok := ix.isConfl[c.Key()]
	return ok
}

func (ix *Index) IsTouchingWater(c geom.Coordinate) bool {
	for _, f := range ix.features {
		if f.distance(c) <= ix.tol {
			return true
		}
	}
	return false
}

func (ix *Index) IsOverlappingWater(e geom.Edge) bool {
	for _, f := range ix.features {
		if f.runsAlong(e.From, e.To, ix.tol) {
			return true
		}
	}
	return false
}

func (ix *Index) NearestWaterDistance(c geom.Coordinate) float64 {
	return ix.NearestOtherWaterDistance(c, "")
}

func (ix *Index) NearestOtherWaterDistance(c geom.Coordinate, exclude growth.WaterRef) float64 {
	d := math.Inf(1)
	for _, f := range ix.features {
		if f.ref == exclude {
			continue
		}
		d = math.Min(d, f.distance(c))
	}
	return d
}

// DistanceDiffBetweenTwoNearestWaters is +Inf when fewer than two features exist.
func (ix *Index) DistanceDiffBetweenTwoNearestWaters(c geom.Coordinate) float64 {
	first, second := math.Inf(1), math.Inf(1)
	for _, f := range ix.features {
		d := f.distance(c)
		switch {
		case d < first:
			first, second = d, first
		case d < second:
			second = d
		}
	}
	if math.IsInf(second, 1) {
		return math.Inf(1)
	}
	return second - first
}

func (ix *Index) TouchingWater(g any) []growth.WaterRef {
	var out []growth.WaterRef
	for _, f := range ix.features {
		if ix.touches(f, g) {
			out = append(out, f.ref)
		}
	}
	return out
}

func (ix *Index) touches(f *feature, g any) bool {
	switch v := g.(type) {
	case geom.Coordinate:
		return f.distance(v) <= ix.tol
	case geom.Edge:
		return f.segmentDistance(v.From, v.To) <= ix.tol
	case geom.Polygon:
		ring := v.Ring()
		for i := 1; i < len(ring); i++ {
			if f.segmentDistance(ring[i-1], ring[i]) <= ix.tol {
				return true
			}
		}
		for _, c := range f.line {
			if v.Contains(c) {
				return true
			}
		}
	}
	return false
}

func (ix *Index) OverlappingWater(g any) []growth.WaterRef {
	var out []growth.WaterRef
	for _, f := range ix.features {
		switch v := g.(type) {
		case geom.Edge:
			if f.runsAlong(v.From, v.To, ix.tol) {
				out = append(out, f.ref)
			}
		case geom.Polygon:
			if f.overlapsArea(v, ix.tol) {
				out = append(out, f.ref)
			}
		}
	}
	return out
}

// OppositeWater returns the vertex, of the first segment hit by the ray, that
// is closest to the hit point.
func (ix *Index) OppositeWater(origin geom.Coordinate, dirX, dirY float64, exclude growth.WaterRef) (geom.Coordinate, growth.WaterRef, bool) {
	norm := math.Hypot(dirX, dirY)
	if norm == 0 || ix.extent == 0 {
		return geom.Coordinate{}, "", false
	}
	reach := 2*ix.extent + 1
	far := geom.XY(origin.X+dirX/norm*reach, origin.Y+dirY/norm*reach)
	ray := geo.NewLine(toPoint(origin), toPoint(far))

	var (
		bestDist = math.Inf(1)
		bestSeg  segment
		bestHit  geom.Coordinate
		bestRef  growth.WaterRef
	)
	for _, f := range ix.features {
		if f.ref == exclude {
			continue
		}
		for _, s := range f.segs {
			hit := s.line.Intersection(ray)
			if hit == nil {
				continue
			}
			at := geom.XY(hit.X(), hit.Y())
			if math.IsInf(at.X, 0) || math.IsNaN(at.X) {
				// Collinear with the ray line: only endpoints ahead of the
				// origin count, the nearer one wins.
				var ahead bool
				at, ahead = nearestAhead(origin, dirX, dirY, s.a, s.b)
				if !ahead {
					continue
				}
			}
			d := origin.Distance(at)
			if d <= ix.tol || d >= bestDist {
				continue
			}
			bestDist, bestSeg, bestHit, bestRef = d, s, at, f.ref
		}
	}
	if bestRef == "" {
		return geom.Coordinate{}, "", false
	}
	if bestHit.Distance(bestSeg.b) < bestHit.Distance(bestSeg.a) {
		return bestSeg.b, bestRef, true
	}
	return bestSeg.a, bestRef, true
}

// nearestAhead returns whichever of a and b lies ahead of origin along
// (dirX, dirY) and is closer to it.
func nearestAhead(origin geom.Coordinate, dirX, dirY float64, a, b geom.Coordinate) (geom.Coordinate, bool) {
	var (
		best  geom.Coordinate
		found bool
	)
	for _, c := range []geom.Coordinate{a, b} {
		if (c.X-origin.X)*dirX+(c.Y-origin.Y)*dirY < 0 {
			continue
		}
		if !found || origin.Distance(c) < origin.Distance(best) {
			best, found = c, true
		}
	}
	return best, found
}
