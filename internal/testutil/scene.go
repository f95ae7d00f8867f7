package testutil

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/meshgraph"
	"github.com/vk/ridgegrow/internal/waterindex"
)

// Scene is a mesh with its water network.
type Scene struct {
	Vertices  []geom.Coordinate
	Triangles [][3]int
	Rivers    []waterindex.River
	Lakes     []waterindex.Lake
}

// Build indexes the scene, failing the test on any error.
func (s Scene) Build(t testing.TB) (*meshgraph.Graph, *waterindex.Index, *meshgraph.Router) {
	t.Helper()
	g, err := meshgraph.New(s.Vertices, s.Triangles)
	require.NoError(t, err)
	ix, err := waterindex.New(s.Rivers, s.Lakes)
	require.NoError(t, err)
	return g, ix, meshgraph.NewRouter(g)
}

// Vertex returns the scene vertex at (x, y), failing the test if missing.
func (s Scene) Vertex(t testing.TB, x, y float64) geom.Coordinate {
	t.Helper()
	for _, v := range s.Vertices {
		if v.X == x && v.Y == y {
			return v
		}
	}
	require.Failf(t, "no such vertex", "(%g %g)", x, y)
	return geom.Coordinate{}
}

// HCL renders the scene as a loadable scene file.
func (s Scene) HCL() string {
	var sb strings.Builder
	sb.WriteString("mesh {\n  vertices = [\n")
	for _, v := range s.Vertices {
		fmt.Fprintf(&sb, "    %s,\n", tuple(v))
	}
	sb.WriteString("  ]\n  triangles = [\n")
	for _, tr := range s.Triangles {
		fmt.Fprintf(&sb, "    [%d, %d, %d],\n", tr[0], tr[1], tr[2])
	}
	sb.WriteString("  ]\n}\n")
	for _, r := range s.Rivers {
		writeWater(&sb, "river", r.Name, r.Coords)
	}
	for _, l := range s.Lakes {
		writeWater(&sb, "lake", l.Name, l.Ring)
	}
	return sb.String()
}

func writeWater(sb *strings.Builder, kind, name string, coords []geom.Coordinate) {
	fmt.Fprintf(sb, "\n%s %q {\n  coordinates = [", kind, name)
	for i, c := range coords {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple(c))
	}
	sb.WriteString("]\n}\n")
}

func tuple(c geom.Coordinate) string {
	if math.IsNaN(c.Z) {
		return fmt.Sprintf("[%g, %g]", c.X, c.Y)
	}
	return fmt.Sprintf("[%g, %g, %g]", c.X, c.Y, c.Z)
}

// Grid returns the vertices of a (w+1)×(h+1) unit grid and its
// triangulation, each cell split along the diagonal from (i, j) to
// (i+1, j+1). Vertex (x, y) has index y*(w+1)+x.
func Grid(w, h int, z func(x, y int) float64) ([]geom.Coordinate, [][3]int) {
	idx := func(x, y int) int { return y*(w+1) + x }
	vertices := make([]geom.Coordinate, 0, (w+1)*(h+1))
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			vertices = append(vertices, geom.XYZ(float64(x), float64(y), z(x, y)))
		}
	}
	triangles := make([][3]int, 0, 2*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			triangles = append(triangles,
				[3]int{idx(x, y), idx(x+1, y), idx(x+1, y+1)},
				[3]int{idx(x, y), idx(x+1, y+1), idx(x, y+1)},
			)
		}
	}
	return vertices, triangles
}

// ConfluenceScene is a small mesh around one confluence at (7,1,10) where
// arms main#1 (north), trib (east) and main#2 (south) meet. The only dry
// sector faces west and its steepest edge leads to (5,1,11). A crest runs
// west through (3,1,12) to (1,1,13) between lower flanks, so hill climbing
// from the confluence grows exactly (7,1) (5,1) (3,1) (1,1).
func ConfluenceScene() Scene {
	return Scene{
		Vertices: []geom.Coordinate{
			geom.XYZ(7, 1, 10),   // 0 confluence
			geom.XYZ(7, 3, 9),    // 1 main, north arm
			geom.XYZ(9, 1, 8),    // 2 trib
			geom.XYZ(7, -1, 9),   // 3 main, south arm
			geom.XYZ(5, 1, 11),   // 4 seed target
			geom.XYZ(5, 3, 10),   // 5
			geom.XYZ(5, -1, 10),  // 6
			geom.XYZ(3, 1, 12),   // 7
			geom.XYZ(3, 3, 10.5), // 8
			geom.XYZ(3, -1, 10.5),
			geom.XYZ(1, 1, 13), // 10
			geom.XYZ(1, 3, 11),
			geom.XYZ(1, -1, 11),
		},
		Triangles: [][3]int{
			{0, 2, 1}, {0, 3, 2},
			{0, 1, 5}, {0, 5, 4}, {3, 0, 4}, {3, 4, 6},
			{4, 5, 8}, {4, 8, 7}, {6, 4, 7}, {6, 7, 9},
			{7, 8, 11}, {7, 11, 10}, {9, 7, 10}, {9, 10, 12},
		},
		Rivers: []waterindex.River{
			{Name: "main", Coords: []geom.Coordinate{geom.XY(7, 3), geom.XY(7, 1), geom.XY(7, -1)}},
			{Name: "trib", Coords: []geom.Coordinate{geom.XY(9, 1), geom.XY(7, 1)}},
		},
	}
}

// ConfluenceRidge is the hill-climbing ridge of ConfluenceScene.
func ConfluenceRidge() geom.Polyline {
	return geom.Polyline{
		geom.XYZ(7, 1, 10),
		geom.XYZ(5, 1, 11),
		geom.XYZ(3, 1, 12),
		geom.XYZ(1, 1, 13),
	}
}

// StarScene has one confluence whose every mesh edge runs along water.
func StarScene() Scene {
	return Scene{
		Vertices: []geom.Coordinate{
			geom.XYZ(0, 0, 5),
			geom.XYZ(2, 0, 1),
			geom.XYZ(-1, 2, 1),
			geom.XYZ(-1, -2, 1),
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}},
		Rivers: []waterindex.River{
			{Name: "r1", Coords: []geom.Coordinate{geom.XY(2, 0), geom.XY(0, 0)}},
			{Name: "r2", Coords: []geom.Coordinate{geom.XY(-1, 2), geom.XY(0, 0)}},
			{Name: "r3", Coords: []geom.Coordinate{geom.XY(-1, -2), geom.XY(0, 0)}},
		},
	}
}

// LakeScene is an 8×6 unit grid with a 1×2 isolated lake "pond" west of a
// straight river "east" along x=6. The terrain crests along x=4 and rises
// away from y=3.
//
// The pond's vertex closest to the river is (2,3); its outward normal points
// due east, hits the river at (6,3) and the route between them peaks at
// (4,3), giving two seed edges, (4,3)→(4,2) and (4,3)→(4,4). The second
// pre-seed (1,3) faces west where there is no water and fails.
func LakeScene() Scene {
	vertices, triangles := Grid(8, 6, func(x, y int) float64 {
		return 20 - 2*math.Abs(float64(x-4)) + 0.5*math.Abs(float64(y-3))
	})
	river := make([]geom.Coordinate, 0, 7)
	for y := 0; y <= 6; y++ {
		river = append(river, geom.XY(6, float64(y)))
	}
	return Scene{
		Vertices:  vertices,
		Triangles: triangles,
		Rivers:    []waterindex.River{{Name: "east", Coords: river}},
		Lakes: []waterindex.Lake{{
			Name: "pond",
			Ring: []geom.Coordinate{
				geom.XY(2, 3), geom.XY(2, 4), geom.XY(1, 4),
				geom.XY(1, 3), geom.XY(1, 2), geom.XY(2, 2),
			},
		}},
	}
}
