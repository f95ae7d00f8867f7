package growth

import (
	"fmt"

	"github.com/vk/ridgegrow/internal/geom"
)

// TaskKind names the feature a task was seeded from.
type TaskKind int

const (
	ConfluenceTask TaskKind = iota
	IsolatedLakeTask
)

func (k TaskKind) String() string {
	switch k {
	case ConfluenceTask:
		return "confluence"
	case IsolatedLakeTask:
		return "isolated_lake"
	default:
		return fmt.Sprintf("TaskKind(%d)", int(k))
	}
}

// AdjacentWaterPair holds the two distinct features on either side of a seed
// edge. Build it with NewAdjacentWaterPair.
type AdjacentWaterPair struct {
	Left, Right WaterRef
}

// NewAdjacentWaterPair fails with ErrAdjacentWater unless both handles are
// present and distinct.
func NewAdjacentWaterPair(left, right WaterRef) (*AdjacentWaterPair, error) {
	switch {
	case left == "" || right == "":
		return nil, fmt.Errorf("%w: missing handle (left=%q, right=%q)", ErrAdjacentWater, left, right)
	case left == right:
		return nil, fmt.Errorf("%w: both sides are %q", ErrAdjacentWater, left)
	}
	return &AdjacentWaterPair{Left: left, Right: right}, nil
}

// Task is a single growth problem. It is built once and never modified.
type Task struct {
	Seq           int
	Kind          TaskKind
	Seed          geom.Coordinate
	Stem          geom.Polyline
	AdjacentWater *AdjacentWaterPair
}

func (t *Task) String() string {
	return fmt.Sprintf("%s#%d@%s", t.Kind, t.Seq, t.Seed)
}

// Result is the outcome of one task: a ridge or an error, never both.
type Result struct {
	Task  *Task
	Ridge geom.Polyline
	Err   error
}

// OK reports whether the task produced a ridge.
func (r Result) OK() bool {
	return r.Err == nil
}
