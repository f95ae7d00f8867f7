package growth

import "errors"

// Fatal errors point at inconsistent mesh or water input and abort a run.
var (
	ErrInvariant     = errors.New("growth invariant violated")
	ErrAdjacentWater = errors.New("seed edge is not bracketed by two distinct water features")
)

// Recoverable errors drop a single task.
var (
	ErrNoRoute = errors.New("no route through the mesh")
	ErrNoSeed  = errors.New("no usable seed")
)

// IsFatal reports whether err must stop the whole run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvariant) || errors.Is(err, ErrAdjacentWater)
}
