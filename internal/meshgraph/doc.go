// Package meshgraph provides the in-memory terrain mesh consumed by the growth
// engine: vertex adjacency derived from a triangle list, incident edges in
// counter-clockwise order, 2D→3D vertex lookup and a shortest-path router.
//
// Triangulation itself is not done here; callers hand over the triangles.
package meshgraph
