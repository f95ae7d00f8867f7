package growth

import (
	"math"

	"github.com/vk/ridgegrow/internal/geom"
)

// referenceFraction positions the moving-away reference inside the stem.
const referenceFraction = 0.75

// referenceCoordinate returns the stem element at floor(0.75*len). Measuring
// from there instead of the anchor keeps the check O(1) and mostly
// independent of mesh resolution, but it is only an approximation of "away
// from the start" once the stem bends far outside that window.
func referenceCoordinate(stem geom.Polyline) geom.Coordinate {
	i := int(math.Floor(referenceFraction * float64(len(stem))))
	if i >= len(stem) {
		i = len(stem) - 1
	}
	return stem[i]
}

// IsMovingAway reports whether candidate is farther from the reference
// coordinate than the current frontier.
func IsMovingAway(stem geom.Polyline, candidate geom.Coordinate) bool {
	if len(stem) == 0 {
		return false
	}
	ref := referenceCoordinate(stem)
	return ref.Distance(candidate) > ref.Distance(stem.Last())
}

// IsValidRidgeCoord rejects coordinates already on the stem and coordinates
// on water, except confluences which are legitimate end points.
func IsValidRidgeCoord(candidate geom.Coordinate, stem geom.Polyline, water WaterIndex) bool {
	if stem.Contains2D(candidate) {
		return false
	}
	if water.IsTouchingWater(candidate) && !water.IsConfluence(candidate) {
		return false
	}
	return true
}

// Extend returns a new stem with candidate appended. The input is never
// modified.
func Extend(stem geom.Polyline, candidate geom.Coordinate) geom.Polyline {
	if len(stem) > 0 && stem.Last().Equals2D(candidate) {
		return stem.Clone()
	}
	out := make(geom.Polyline, len(stem), len(stem)+1)
	copy(out, stem)
	return append(out, candidate)
}
