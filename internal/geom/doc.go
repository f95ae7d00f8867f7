// Package geom holds the planar-with-elevation primitives shared by the mesh,
// the water index and the growth engine: coordinates keyed by their 2D
// position, polylines, oriented mesh edges and simple polygons.
//
// Identity is always 2D. Elevation participates in comparisons only, so two
// coordinates at the same (x, y) are the same vertex even if one of them
// carries a NaN elevation.
package geom
