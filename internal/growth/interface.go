package growth

import (
	"context"

	"github.com/vk/ridgegrow/internal/geom"
)

// WaterRef is an opaque handle of a single water feature.
type WaterRef string

// MeshGraph is the read-only view of the terrain mesh the engine needs.
type MeshGraph interface {
	// ConnectedCoordinates returns the vertices sharing an edge with v.
	ConnectedCoordinates(v geom.Coordinate) []geom.Coordinate
	// EdgesTouching returns the edges incident to v, oriented away from v, in
	// a stable circular (counter-clockwise) order.
	EdgesTouching(v geom.Coordinate) []geom.Edge
	// CoordinateAt looks a 3D mesh vertex up by its 2D position.
	CoordinateAt(k geom.Key) (geom.Coordinate, bool)
}

// WaterIndex answers the hydrographic questions asked during task building
// and growth.
type WaterIndex interface {
	Confluences() []geom.Coordinate
	LakePolygons() []geom.Polygon
	// Lake returns the handle of the lake whose ring is p.
	Lake(p geom.Polygon) (WaterRef, bool)

	IsTouchingWater(c geom.Coordinate) bool
	IsConfluence(c geom.Coordinate) bool
	IsOverlappingWater(e geom.Edge) bool

	NearestWaterDistance(c geom.Coordinate) float64
	// NearestOtherWaterDistance ignores the feature named by exclude.
	NearestOtherWaterDistance(c geom.Coordinate, exclude WaterRef) float64
	DistanceDiffBetweenTwoNearestWaters(c geom.Coordinate) float64

	// TouchingWater lists features within tolerance of the geometry, which
	// is a geom.Coordinate, a geom.Edge or a geom.Polygon.
	TouchingWater(g any) []WaterRef
	// OverlappingWater lists features sharing a linear or areal portion with
	// the geometry.
	OverlappingWater(g any) []WaterRef

	// OppositeWater casts a ray from origin along dir and returns the nearest
	// vertex of another feature hit by it.
	OppositeWater(origin geom.Coordinate, dirX, dirY float64, exclude WaterRef) (geom.Coordinate, WaterRef, bool)
}

// Router finds a path through the mesh between two vertices.
type Router interface {
	Route(ctx context.Context, start, end geom.Coordinate) (geom.Polyline, error)
}
