package growth

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/vk/ridgegrow/internal/geom"
)

// DefaultLookahead is the number of vertices HillClimb explores past the frontier.
const DefaultLookahead = 2

// HillClimb grows a stem by looking Lookahead vertices ahead and taking the
// first step of the best lookahead path.
type HillClimb struct {
	mesh        MeshGraph
	water       WaterIndex
	lookahead   int
	uncertainty float64
	// order only decides the exploration order of neighbours, never the winner.
	order func(a, b geom.Coordinate) int
}

// NewHillClimb returns a HillClimb strategy. A lookahead below one falls
// back to DefaultLookahead; uncertainty is the vertical range under which a
// lookahead path counts as flat.
func NewHillClimb(mesh MeshGraph, water WaterIndex, lookahead int, uncertainty float64) *HillClimb {
	if lookahead < 1 {
		lookahead = DefaultLookahead
	}
	return &HillClimb{
		mesh:        mesh,
		water:       water,
		lookahead:   lookahead,
		uncertainty: math.Abs(uncertainty),
		order:       byElevation,
	}
}

func byElevation(a, b geom.Coordinate) int {
	return cmp.Compare(a.Z, b.Z)
}

func (h *HillClimb) Name() string { return string(KindHillClimb) }

func (h *HillClimb) CanChooseNext(stem geom.Polyline) bool {
	_, ok, err := h.ChooseNext(stem)
	return ok && err == nil
}

func (h *HillClimb) ChooseNext(stem geom.Polyline) (geom.Coordinate, bool, error) {
	if len(stem) == 0 {
		return geom.Coordinate{}, false, nil
	}
	paths, err := h.expand(stem, stem, h.lookahead)
	if err != nil {
		return geom.Coordinate{}, false, err
	}
	if len(paths) == 0 {
		return geom.Coordinate{}, false, nil
	}

	scored := make([]scoredPath, len(paths))
	for i, p := range paths {
		scored[i] = h.score(stem, p)
	}
	slices.SortStableFunc(scored, compareScores)
	best := scored[0]

	switch {
	case !best.endsAway:
		return geom.Coordinate{}, false, nil
	case !best.hasRange || best.verticalRange < h.uncertainty:
		return geom.Coordinate{}, false, nil
	case !best.endsHigher:
		return geom.Coordinate{}, false, nil
	}
	return best.path.first(), true, nil
}

// lookaheadPath is the stem followed by one to N explored vertices.
type lookaheadPath struct {
	coords geom.Polyline
	base   int
}

func (p lookaheadPath) first() geom.Coordinate { return p.coords[p.base] }
func (p lookaheadPath) last() geom.Coordinate  { return p.coords.Last() }
func (p lookaheadPath) taken() int             { return len(p.coords) - p.base }

// segment is the frontier followed by the explored vertices.
func (p lookaheadPath) segment() geom.Polyline { return p.coords[p.base-1:] }

// expand enumerates every valid extension of path up to depth vertices.
// Paths are never extended past a water vertex.
func (h *HillClimb) expand(stem, path geom.Polyline, depth int) ([]lookaheadPath, error) {
	neighbours := slices.Clone(h.mesh.ConnectedCoordinates(path.Last()))
	slices.SortStableFunc(neighbours, h.order)

	var out []lookaheadPath
	for _, n := range neighbours {
		if !IsValidRidgeCoord(n, path, h.water) {
			continue
		}
		next := Extend(path, n)
		if len(next) != len(path)+1 || !next.Last().Equals2D(n) {
			return nil, fmt.Errorf("%w: extending %s by %s did not append it", ErrInvariant, path.Last(), n)
		}
		out = append(out, lookaheadPath{coords: next, base: len(stem)})
		if depth <= 1 || h.water.IsTouchingWater(n) {
			continue
		}
		deeper, err := h.expand(stem, next, depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, deeper...)
	}
	return out, nil
}

type scoredPath struct {
	path          lookaheadPath
	endsAway      bool
	firstAway     bool
	endsHigher    bool
	fitness       float64
	verticalRange float64
	hasRange      bool
}

func (h *HillClimb) score(stem geom.Polyline, p lookaheadPath) scoredPath {
	start := stem.Last()
	s := scoredPath{
		path:      p,
		endsAway:  IsMovingAway(stem, p.last()),
		firstAway: IsMovingAway(stem, p.first()),
		fitness:   climbFitness(p.segment()),
	}
	if start.HasZ() && p.last().HasZ() {
		s.endsHigher = p.last().Z >= start.Z
	}
	if lo, hi, ok := p.segment().ElevationRange(); ok {
		s.verticalRange = hi - lo
		s.hasRange = true
	}
	return s
}

// climbFitness is the net climb from the frontier to the path's end divided
// by the planar length. It is NaN when either end has no elevation or the
// path has no length.
func climbFitness(seg geom.Polyline) float64 {
	if len(seg) < 2 {
		return math.NaN()
	}
	first, last := seg[0], seg.Last()
	length := seg.Length()
	if !first.HasZ() || !last.HasZ() || length == 0 {
		return math.NaN()
	}
	return (last.Z - first.Z) / length
}

// compareScores orders the best path first. A fitness that could not be
// computed is a tie, so a scoring failure never blocks forward progress.
func compareScores(a, b scoredPath) int {
	if c := preferTrue(a.endsAway, b.endsAway); c != 0 {
		return c
	}
	if c := preferTrue(a.firstAway, b.firstAway); c != 0 {
		return c
	}
	if c := preferTrue(a.endsHigher, b.endsHigher); c != 0 {
		return c
	}
	if finite(a.fitness) && finite(b.fitness) {
		if c := cmp.Compare(b.fitness, a.fitness); c != 0 {
			return c
		}
	}
	return cmp.Compare(b.path.taken(), a.path.taken())
}

func preferTrue(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
