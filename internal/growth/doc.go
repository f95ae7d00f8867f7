// Package growth is the ridge-growth engine: the predicates every strategy is
// built on, the step-selection strategies themselves and the loop that
// extends a seed stem one mesh vertex at a time until it meets water.
//
// # Strategies
//
// Three strategies exist and the set is closed:
//
//   - HillClimb looks N vertices ahead and commits to the first step of the
//     best-scoring lookahead path. Precise, but dead-ends on flat saddles.
//   - MedialAxis takes one step at a time, pushing away from water and, once
//     the terrain crests, hugging the line equidistant from the two nearest
//     water bodies.
//   - PlanAPlanB drives growth with a primary strategy and falls back to a
//     secondary one when the primary has no candidate.
//
// # Collaborators
//
// The engine consumes the mesh, the water network and a router only through
// the MeshGraph, WaterIndex and Router interfaces declared here. Concrete
// implementations live in the meshgraph and waterindex packages.
//
// # Concurrency
//
// Nothing in this package holds shared mutable state. A stem is owned by the
// goroutine growing it, and the collaborators are required to be safe for
// concurrent readers.
package growth
