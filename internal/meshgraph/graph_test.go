package meshgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
)

// square is the unit square split along its (0,0)-(1,1) diagonal.
func square(t *testing.T) *Graph {
	t.Helper()
	g, err := New([]geom.Coordinate{
		geom.XYZ(0, 0, 1),
		geom.XYZ(1, 0, 2),
		geom.XYZ(1, 1, 3),
		geom.XYZ(0, 1, 4),
	}, [][3]int{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	g := square(t)

	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, 5, g.EdgeCount())

	c, ok := g.CoordinateAt(geom.Key{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, 3.0, c.Z)
	_, ok = g.CoordinateAt(geom.Key{X: 5, Y: 5})
	assert.False(t, ok)
}

func TestNew_Errors(t *testing.T) {
	vertices := []geom.Coordinate{geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0), geom.XYZ(0, 1, 0)}

	_, err := New(append(vertices, geom.XYZ(0, 0, 9)), nil)
	assert.ErrorContains(t, err, "duplicates")

	_, err = New(vertices, [][3]int{{0, 1, 3}})
	assert.ErrorContains(t, err, "references vertex 3")

	_, err = New(vertices, [][3]int{{0, 1, 1}})
	assert.ErrorContains(t, err, "degenerate")
}

func TestConnectedCoordinates_CounterClockwise(t *testing.T) {
	g := square(t)

	// Looking up a vertex without elevation still yields the 3D neighbours.
	got := g.ConnectedCoordinates(geom.XY(0, 0))

	assert.Equal(t, []geom.Coordinate{
		geom.XYZ(1, 0, 2), // bearing 0
		geom.XYZ(1, 1, 3), // π/4
		geom.XYZ(0, 1, 4), // π/2
	}, got)
	assert.Empty(t, g.ConnectedCoordinates(geom.XY(7, 7)))
}

func TestEdgesTouching(t *testing.T) {
	g := square(t)

	edges := g.EdgesTouching(geom.XY(1, 1))

	require.Len(t, edges, 3)
	for _, e := range edges {
		assert.Equal(t, geom.XYZ(1, 1, 3), e.From, "edges are oriented away from the vertex")
	}
	// From (1,1): (1,0) at -π/2, (0,0) at -3π/4, (0,1) at π.
	assert.Equal(t, geom.XYZ(0, 0, 1), edges[0].To)
	assert.Equal(t, geom.XYZ(1, 0, 2), edges[1].To)
	assert.Equal(t, geom.XYZ(0, 1, 4), edges[2].To)

	assert.Nil(t, g.EdgesTouching(geom.XY(7, 7)))
}

func TestRouter_Route(t *testing.T) {
	g := square(t)
	r := NewRouter(g)
	ctx := context.Background()

	path, err := r.Route(ctx, geom.XY(1, 0), geom.XY(0, 1))
	require.NoError(t, err)
	// Via (0,0) and via (1,1) are equally short.
	require.Len(t, path, 3)
	assert.Equal(t, geom.XYZ(1, 0, 2), path.First())
	assert.Equal(t, geom.XYZ(0, 1, 4), path.Last())
	assert.Equal(t, 2.0, path.Length())

	path, err = r.Route(ctx, geom.XY(0, 0), geom.XY(1, 1))
	require.NoError(t, err)
	assert.Equal(t, geom.Polyline{geom.XYZ(0, 0, 1), geom.XYZ(1, 1, 3)}, path)

	path, err = r.Route(ctx, geom.XY(0, 0), geom.XY(0, 0))
	require.NoError(t, err)
	assert.Len(t, path, 1)
}

func TestRouter_Errors(t *testing.T) {
	g, err := New([]geom.Coordinate{
		geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0), geom.XYZ(0, 1, 0),
		geom.XYZ(5, 5, 0), geom.XYZ(6, 5, 0), geom.XYZ(5, 6, 0),
	}, [][3]int{{0, 1, 2}, {3, 4, 5}})
	require.NoError(t, err)
	r := NewRouter(g)

	_, err = r.Route(context.Background(), geom.XY(0, 0), geom.XY(5, 5))
	assert.ErrorIs(t, err, growth.ErrNoRoute)

	_, err = r.Route(context.Background(), geom.XY(0, 0), geom.XY(9, 9))
	assert.ErrorIs(t, err, growth.ErrNoRoute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Route(ctx, geom.XY(0, 0), geom.XY(1, 0))
	assert.ErrorIs(t, err, context.Canceled)
}
