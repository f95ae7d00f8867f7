package taskbuilder

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// SeedFailure reports a lake pre-seed that produced no task.
type SeedFailure struct {
	Lake    growth.WaterRef
	PreSeed geom.Coordinate
	Err     error
}

func (f SeedFailure) Error() string {
	return fmt.Sprintf("lake %s, pre-seed %s: %v", f.Lake, f.PreSeed, f.Err)
}

func (f SeedFailure) Unwrap() error {
	return f.Err
}

// IsIsolated reports whether the lake touches no water besides itself.
func (b *Builder) IsIsolated(lake geom.Polygon) bool {
	touching := b.water.TouchingWater(lake)
	overlapping := b.water.OverlappingWater(lake)
	if len(touching) == 0 {
		return false
	}
	for _, ref := range touching {
		if !slices.Contains(overlapping, ref) {
			return false
		}
	}
	for _, ref := range overlapping {
		if !slices.Contains(touching, ref) {
			return false
		}
	}
	return true
}

// LakeTasks builds tasks for an isolated lake. Lakes touching other water
// yield nothing. Pre-seeds that fail are returned as SeedFailures.
func (b *Builder) LakeTasks(ctx context.Context, lake geom.Polygon) ([]*growth.Task, []SeedFailure, error) {
	ref, ok := b.water.Lake(lake)
	if !ok {
		return nil, nil, fmt.Errorf("%w: polygon starting at %s is not an indexed lake", growth.ErrNoSeed, lake.Vertex(0))
	}
	ctx, logger := ctxlog.With(ctx, "lake", ref)

	if !b.IsIsolated(lake) {
		logger.Debug("Lake touches other water, skipping.")
		return nil, nil, nil
	}
	if b.router == nil {
		return nil, nil, fmt.Errorf("%w: no router configured for isolated lake %s", growth.ErrNoRoute, ref)
	}

	var (
		tasks    []*growth.Task
		failures []SeedFailure
	)
	for _, i := range b.preSeedIndices(lake, ref) {
		ts, err := b.preSeedTasks(ctx, ref, lake, i)
		if err != nil {
			logger.Warn("Lake pre-seed skipped.", "pre_seed", lake.Vertex(i).String(), "error", err)
			failures = append(failures, SeedFailure{Lake: ref, PreSeed: lake.Vertex(i), Err: err})
			continue
		}
		tasks = append(tasks, ts...)
	}
	logger.Debug("Lake tasks built.", "tasks", len(tasks), "failed_pre_seeds", len(failures))
	return tasks, failures, nil
}

// preSeedIndices starts at the boundary vertex closest to other water and
// steps vertexCount/lakeSeeds vertices for each further pre-seed.
func (b *Builder) preSeedIndices(lake geom.Polygon, ref growth.WaterRef) []int {
	first, best := 0, math.Inf(1)
	for i, c := range lake {
		if d := b.water.NearestOtherWaterDistance(c, ref); d < best {
			first, best = i, d
		}
	}

	n := min(b.lakeSeeds, len(lake))
	step := max(len(lake)/b.lakeSeeds, 1)
	out := make([]int, 0, n)
	for k := range n {
		i := (first + k*step) % len(lake)
		if slices.Contains(out, i) {
			break
		}
		out = append(out, i)
	}
	return out
}

func (b *Builder) preSeedTasks(ctx context.Context, ref growth.WaterRef, lake geom.Polygon, i int) ([]*growth.Task, error) {
	pre, ok := b.mesh.CoordinateAt(lake.Vertex(i).Key())
	if !ok {
		return nil, fmt.Errorf("%w: pre-seed is not a mesh vertex", growth.ErrNoSeed)
	}
	normal, ok := lake.OutwardNormal(i)
	if !ok {
		return nil, fmt.Errorf("%w: degenerate lake boundary", growth.ErrNoSeed)
	}
	oppositeXY, oppositeRef, ok := b.water.OppositeWater(pre, normal.X, normal.Y, ref)
	if !ok {
		return nil, fmt.Errorf("%w: no water opposite the lake boundary", growth.ErrNoSeed)
	}
	opposite, ok := b.mesh.CoordinateAt(oppositeXY.Key())
	if !ok {
		return nil, fmt.Errorf("%w: opposite water vertex %s is not a mesh vertex", growth.ErrNoSeed, oppositeXY)
	}

	route, err := b.router.Route(ctx, pre, opposite)
	if err != nil {
		return nil, fmt.Errorf("routing to %s: %w", opposite, err)
	}
	if len(route) < 3 {
		return nil, fmt.Errorf("%w: route to %s has %d points", growth.ErrNoSeed, opposite, len(route))
	}
	if b.crossesLake(route, lake, ref) {
		return nil, fmt.Errorf("%w: route to %s crosses the lake", growth.ErrNoSeed, opposite)
	}

	at := highestInterior(route)
	seed := route[at]
	bearing := route[at-1].Bearing(route[at+1])

	var cw, ccw *geom.Edge
	bestCW, bestCCW := math.Inf(1), math.Inf(1)
	for _, e := range b.mesh.EdgesTouching(seed) {
		if e.To.Equals2D(route[at-1]) || e.To.Equals2D(route[at+1]) {
			continue
		}
		if len(b.water.TouchingWater(e)) > 0 {
			continue
		}
		turn := geom.SignedTurn(bearing, e.Bearing())
		deviation := math.Abs(math.Abs(turn) - math.Pi/2)
		switch {
		case turn > 0 && deviation < bestCCW:
			bestCCW, ccw = deviation, &e
		case turn < 0 && deviation < bestCW:
			bestCW, cw = deviation, &e
		}
	}
	if cw == nil && ccw == nil {
		return nil, fmt.Errorf("%w: no dry edge leaves seed %s sideways", growth.ErrNoSeed, seed)
	}

	pair, err := growth.NewAdjacentWaterPair(ref, oppositeRef)
	if err != nil {
		return nil, fmt.Errorf("pairing with opposite water: %w", err)
	}
	var tasks []*growth.Task
	for _, e := range []*geom.Edge{cw, ccw} {
		if e == nil {
			continue
		}
		tasks = append(tasks, &growth.Task{
			Seq:           b.nextSeq(),
			Kind:          growth.IsolatedLakeTask,
			Seed:          seed,
			Stem:          geom.Polyline{seed, e.To},
			AdjacentWater: pair,
		})
	}
	return tasks, nil
}

// crossesLake reports whether the route, past its first vertex, comes back
// onto or into the lake.
func (b *Builder) crossesLake(route geom.Polyline, lake geom.Polygon, ref growth.WaterRef) bool {
	for i := 1; i < len(route); i++ {
		if slices.Contains(b.water.TouchingWater(route[i]), ref) {
			return true
		}
		if lake.Contains(geom.Edge{From: route[i-1], To: route[i]}.Midpoint()) {
			return true
		}
	}
	return false
}

// highestInterior returns the index of the sole interior vertex of a
// three-point route, or of the highest interior vertex otherwise.
func highestInterior(route geom.Polyline) int {
	if len(route) == 3 {
		return 1
	}
	best := 1
	for i := 2; i < len(route)-1; i++ {
		if route[i].HasZ() && (!route[best].HasZ() || route[i].Z > route[best].Z) {
			best = i
		}
	}
	return best
}
