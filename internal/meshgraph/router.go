package meshgraph

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// Router finds shortest planar paths through a Graph.
type Router struct {
	g *Graph
}

func NewRouter(g *Graph) *Router {
	return &Router{g: g}
}

// routeState is a tentative distance to a vertex.
type routeState struct {
	key  geom.Key
	dist float64
}

type routePQ []routeState

func (pq routePQ) Len() int           { return len(pq) }
func (pq routePQ) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq routePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *routePQ) Push(x any)        { *pq = append(*pq, x.(routeState)) }
func (pq *routePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Route returns the shortest path from start to end, both included. It
// fails with growth.ErrNoRoute when either end is not a mesh vertex or the
// two are disconnected.
func (r *Router) Route(ctx context.Context, start, end geom.Coordinate) (geom.Polyline, error) {
	src, dst := start.Key(), end.Key()
	if _, ok := r.g.vertices[src]; !ok {
		return nil, fmt.Errorf("%w: start %s is not a mesh vertex", growth.ErrNoRoute, start)
	}
	if _, ok := r.g.vertices[dst]; !ok {
		return nil, fmt.Errorf("%w: end %s is not a mesh vertex", growth.ErrNoRoute, end)
	}
	if src == dst {
		return geom.Polyline{r.g.vertices[src]}, nil
	}

	best := map[geom.Key]float64{src: 0}
	parent := make(map[geom.Key]geom.Key)
	visited := make(map[geom.Key]bool)

	pq := &routePQ{}
	heap.Init(pq)
	heap.Push(pq, routeState{key: src})

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := heap.Pop(pq).(routeState)
		if visited[cur.key] {
			continue
		}
		visited[cur.key] = true

		if cur.key == dst {
			return r.reconstruct(parent, src, dst), nil
		}

		from := cur.key.Coordinate()
		for _, n := range r.g.adj[cur.key] {
			if visited[n] {
				continue
			}
			d := cur.dist + from.Distance(n.Coordinate())
			if prev, seen := best[n]; seen && prev <= d {
				continue
			}
			best[n] = d
			parent[n] = cur.key
			heap.Push(pq, routeState{key: n, dist: d})
		}
	}
	return nil, fmt.Errorf("%w: %s and %s are disconnected", growth.ErrNoRoute, start, end)
}

func (r *Router) reconstruct(parent map[geom.Key]geom.Key, src, dst geom.Key) geom.Polyline {
	var rev []geom.Key
	for k := dst; k != src; k = parent[k] {
		rev = append(rev, k)
	}
	rev = append(rev, src)

	out := make(geom.Polyline, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, r.g.vertices[rev[i]])
	}
	return out
}
