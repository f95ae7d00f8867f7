package taskbuilder

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

type classifiedEdge struct {
	edge  geom.Edge
	water bool
	refs  []growth.WaterRef
}

// ConfluenceTasks returns one task per maximal run of between-water edges
// around conf. It fails with growth.ErrAdjacentWater when conf has no
// between-water run bracketed by two distinct features. Runs bracketed by a
// single feature are skipped.
func (b *Builder) ConfluenceTasks(ctx context.Context, conf geom.Coordinate) ([]*growth.Task, error) {
	_, logger := ctxlog.With(ctx, "confluence", conf.String())

	edges := b.mesh.EdgesTouching(conf)
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: confluence %s has no mesh edges", growth.ErrAdjacentWater, conf)
	}

	classified := make([]classifiedEdge, len(edges))
	start, between := -1, 0
	for i, e := range edges {
		refs := b.water.OverlappingWater(e)
		classified[i] = classifiedEdge{edge: e, water: len(refs) > 0, refs: refs}
		if classified[i].water && start < 0 {
			start = i
		}
		if !classified[i].water {
			between++
		}
	}
	switch {
	case start < 0:
		return nil, fmt.Errorf("%w: no mesh edge at confluence %s runs along water", growth.ErrAdjacentWater, conf)
	case between == 0:
		return nil, fmt.Errorf("%w: every mesh edge at confluence %s runs along water", growth.ErrAdjacentWater, conf)
	}

	// Start on a water edge and close the circle with a copy of it, so a run
	// spanning the end of the list stays in one piece.
	ring := make([]classifiedEdge, 0, len(classified)+1)
	ring = append(ring, classified[start:]...)
	ring = append(ring, classified[:start]...)
	ring = append(ring, ring[0])

	var (
		tasks   []*growth.Task
		before  []growth.WaterRef
		inRun   bool
		seed    geom.Edge
		seedFit float64
		pairErr error
	)
	for _, ce := range ring {
		if ce.water {
			if inRun {
				pair, err := pickPair(before, ce.refs)
				if err != nil {
					logger.Warn("Seed edge skipped.", "towards", seed.To.String(), "error", err)
					pairErr = fmt.Errorf("confluence %s, seed edge towards %s: %w", conf, seed.To, err)
					inRun = false
					before = ce.refs
					continue
				}
				tasks = append(tasks, &growth.Task{
					Seq:           b.nextSeq(),
					Kind:          growth.ConfluenceTask,
					Seed:          seed.From,
					Stem:          geom.Polyline{seed.From, seed.To},
					AdjacentWater: pair,
				})
				logger.Debug("Seed edge selected.", "towards", seed.To.String(), "fitness", seedFit, "left", pair.Left, "right", pair.Right)
				inRun = false
			}
			before = ce.refs
			continue
		}

		fit := seedFitness(ce.edge)
		if !inRun || betterFitness(fit, seedFit) {
			seed, seedFit = ce.edge, fit
		}
		inRun = true
	}

	if len(tasks) == 0 && pairErr != nil {
		return nil, pairErr
	}
	logger.Debug("Confluence tasks built.", "edges", len(edges), "tasks", len(tasks))
	return tasks, nil
}

// seedFitness is the slope of the climb from the confluence along e.
func seedFitness(e geom.Edge) float64 {
	if !e.From.HasZ() || !e.To.HasZ() || e.Length() == 0 {
		return math.NaN()
	}
	return (e.To.Z - e.From.Z) / e.Length()
}

// betterFitness keeps the earlier edge on ties and prefers any number over NaN.
func betterFitness(candidate, current float64) bool {
	if math.IsNaN(candidate) {
		return false
	}
	return math.IsNaN(current) || candidate > current
}

// pickPair takes the features of the water edges just before (clockwise) and
// just after (counter-clockwise) a run.
func pickPair(before, after []growth.WaterRef) (*growth.AdjacentWaterPair, error) {
	for _, a := range after {
		for _, r := range before {
			if a != r {
				return growth.NewAdjacentWaterPair(a, r)
			}
		}
	}
	var left, right growth.WaterRef
	if len(after) > 0 {
		left = after[0]
	}
	if len(before) > 0 {
		right = before[0]
	}
	return growth.NewAdjacentWaterPair(left, right)
}
