package meshgraph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/vk/ridgegrow/internal/geom"
)

// Graph is an immutable vertex adjacency built from triangles. It is safe
// for concurrent readers.
type Graph struct {
	vertices map[geom.Key]geom.Coordinate
	// adj lists neighbours sorted counter-clockwise by bearing from -π.
	adj map[geom.Key][]geom.Key
}

// New builds a graph from vertices and triangles indexing into them.
// Duplicate vertices (same x, y) are rejected.
func New(vertices []geom.Coordinate, triangles [][3]int) (*Graph, error) {
	g := &Graph{
		vertices: make(map[geom.Key]geom.Coordinate, len(vertices)),
		adj:      make(map[geom.Key][]geom.Key, len(vertices)),
	}
	for i, v := range vertices {
		if _, dup := g.vertices[v.Key()]; dup {
			return nil, fmt.Errorf("vertex %d at %s duplicates an earlier vertex", i, v)
		}
		g.vertices[v.Key()] = v
	}

	linked := make(map[[2]geom.Key]struct{})
	link := func(a, b geom.Key) {
		if _, ok := linked[[2]geom.Key{a, b}]; ok {
			return
		}
		linked[[2]geom.Key{a, b}] = struct{}{}
		linked[[2]geom.Key{b, a}] = struct{}{}
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
	}
	for ti, t := range triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("triangle %d references vertex %d, have %d vertices", ti, idx, len(vertices))
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return nil, fmt.Errorf("triangle %d is degenerate: %v", ti, t)
		}
		a, b, c := vertices[t[0]].Key(), vertices[t[1]].Key(), vertices[t[2]].Key()
		link(a, b)
		link(b, c)
		link(c, a)
	}

	for k, ns := range g.adj {
		origin := k.Coordinate()
		slices.SortStableFunc(ns, func(a, b geom.Key) int {
			return cmp.Compare(origin.Bearing(a.Coordinate()), origin.Bearing(b.Coordinate()))
		})
	}
	return g, nil
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, ns := range g.adj {
		n += len(ns)
	}
	return n / 2
}

// CoordinateAt looks a vertex up by its 2D position.
func (g *Graph) CoordinateAt(k geom.Key) (geom.Coordinate, bool) {
	c, ok := g.vertices[k]
	return c, ok
}

// ConnectedCoordinates returns the neighbours of v in counter-clockwise order.
func (g *Graph) ConnectedCoordinates(v geom.Coordinate) []geom.Coordinate {
	ns := g.adj[v.Key()]
	out := make([]geom.Coordinate, 0, len(ns))
	for _, n := range ns {
		out = append(out, g.vertices[n])
	}
	return out
}

// EdgesTouching returns the edges incident to v, oriented away from it, in
// counter-clockwise order.
func (g *Graph) EdgesTouching(v geom.Coordinate) []geom.Edge {
	from, ok := g.vertices[v.Key()]
	if !ok {
		return nil
	}
	ns := g.adj[v.Key()]
	out := make([]geom.Edge, 0, len(ns))
	for _, n := range ns {
		out = append(out, geom.Edge{From: from, To: g.vertices[n]})
	}
	return out
}
