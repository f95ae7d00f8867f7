package growth

import (
	"context"
	"fmt"

	"github.com/vk/ridgegrow/internal/ctxlog"
	"github.com/vk/ridgegrow/internal/geom"
)

// DefaultMaxLength is the hard ceiling on the number of points in a ridge.
const DefaultMaxLength = 5000

// Strategy picks the next vertex of a growing stem.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// CanChooseNext reports whether ChooseNext would return a candidate.
	CanChooseNext(stem geom.Polyline) bool
	// ChooseNext returns the next vertex. ok is false when growth should stop
	// here; err is reserved for invariant failures.
	ChooseNext(stem geom.Polyline) (next geom.Coordinate, ok bool, err error)
}

// Kind names one of the built-in strategies.
type Kind string

const (
	KindHillClimb  Kind = "hill_climb"
	KindMedialAxis Kind = "medial_axis"
	KindPlanAPlanB Kind = "plan_a_plan_b"
)

// Params tunes the built-in strategies.
type Params struct {
	Lookahead   int
	Uncertainty float64
}

// NewStrategy builds the strategy named by kind. PlanAPlanB pairs HillClimb
// with MedialAxis.
func NewStrategy(kind Kind, mesh MeshGraph, water WaterIndex, p Params) (Strategy, error) {
	switch kind {
	case KindHillClimb:
		return NewHillClimb(mesh, water, p.Lookahead, p.Uncertainty), nil
	case KindMedialAxis:
		return NewMedialAxis(mesh, water), nil
	case KindPlanAPlanB, "":
		return NewPlanAPlanB(
			NewHillClimb(mesh, water, p.Lookahead, p.Uncertainty),
			NewMedialAxis(mesh, water),
		), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}

// Grow extends the task's stem with s until the strategy has no candidate,
// the new vertex touches water, or the stem reaches maxLength points. Each
// accepted vertex is new to the stem, so on a finite mesh the loop always
// ends. A running growth is never cancelled; ctx is accepted for callers
// that trace or log per task.
func Grow(ctx context.Context, s Strategy, water WaterIndex, task *Task, maxLength int) (geom.Polyline, error) {
	if len(task.Stem) < 2 {
		return nil, fmt.Errorf("%w: task %s has a stem of %d points", ErrNoSeed, task, len(task.Stem))
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	logger := ctxlog.FromContext(ctx)

	stem := task.Stem.Clone()
	if water.IsTouchingWater(stem.Last()) {
		logger.Debug("Seed stem already ends on water.", "task", task.String())
		return stem, nil
	}

	for len(stem) < maxLength {
		next, ok, err := s.ChooseNext(stem)
		if err != nil {
			return nil, fmt.Errorf("%s at %s: %w", s.Name(), stem.Last(), err)
		}
		if !ok {
			break
		}
		if stem.Contains2D(next) {
			return nil, fmt.Errorf("%w: %s chose %s which is already on the stem", ErrInvariant, s.Name(), next)
		}
		stem = Extend(stem, next)
		if water.IsTouchingWater(next) {
			break
		}
	}
	logger.Debug("Growth stopped.", "task", task.String(), "strategy", s.Name(), "points", len(stem), "at_water", water.IsTouchingWater(stem.Last()))
	return stem, nil
}
