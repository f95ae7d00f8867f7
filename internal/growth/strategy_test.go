package growth_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/meshgraph"
	"github.com/vk/ridgegrow/internal/testutil"
)

var allKinds = []growth.Kind{growth.KindHillClimb, growth.KindMedialAxis, growth.KindPlanAPlanB}

func confluenceStem(t *testing.T, scene testutil.Scene) geom.Polyline {
	return geom.Polyline{scene.Vertex(t, 7, 1), scene.Vertex(t, 5, 1)}
}

func TestHillClimb_ConfluenceScenario(t *testing.T) {
	// --- Arrange ---
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)
	stem := confluenceStem(t, scene)

	// --- Act ---
	next, ok, err := hc.ChooseNext(stem)

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, ok, "a higher vertex is reachable, the stem must grow")
	assert.Equal(t, geom.XYZ(3, 1, 12), next)
	assert.True(t, hc.CanChooseNext(stem))
}

func TestHillClimb_NeverReturnsToConfluence(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	confluence := scene.Vertex(t, 7, 1)

	for _, lookahead := range []int{1, 2, 3} {
		hc := growth.NewHillClimb(mesh, water, lookahead, 0)
		stem := confluenceStem(t, scene)
		for {
			next, ok, err := hc.ChooseNext(stem)
			require.NoError(t, err)
			if !ok {
				break
			}
			require.False(t, next.Equals2D(confluence), "lookahead %d re-selected the confluence", lookahead)
			require.False(t, stem.Contains2D(next), "lookahead %d re-selected %s", lookahead, next)
			stem = growth.Extend(stem, next)
		}
		assert.GreaterOrEqual(t, len(stem), 3, "lookahead %d did not grow", lookahead)
	}
}

func TestHillClimb_FlatWithinUncertainty(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 100)

	_, ok, err := hc.ChooseNext(confluenceStem(t, scene))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHillClimb_StopsAtSummit(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)

	_, ok, err := hc.ChooseNext(testutil.ConfluenceRidge())

	require.NoError(t, err)
	assert.False(t, ok, "no neighbour of the summit is higher")
}

func TestMedialAxis_FollowsFarthestFromWater(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	ma := growth.NewMedialAxis(mesh, water)

	next, ok, err := ma.ChooseNext(testutil.ConfluenceRidge())

	require.NoError(t, err)
	require.True(t, ok)
	// (1,-1) and (1,3) are both 6 away from water; (1,-1) comes first
	// counter-clockwise.
	assert.Equal(t, geom.XYZ(1, -1, 11), next)
}

func TestPlanAPlanB_Fallback(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)
	ma := growth.NewMedialAxis(mesh, water)
	composite := growth.NewPlanAPlanB(hc, ma)

	t.Run("primary exhausted", func(t *testing.T) {
		stem := testutil.ConfluenceRidge()
		require.False(t, hc.CanChooseNext(stem))

		gotNext, gotOK, gotErr := composite.ChooseNext(stem)
		wantNext, wantOK, wantErr := ma.ChooseNext(stem)

		assert.Equal(t, wantErr, gotErr)
		assert.Equal(t, wantOK, gotOK)
		assert.Equal(t, wantNext, gotNext)
		assert.True(t, composite.CanChooseNext(stem))
	})

	t.Run("primary wins", func(t *testing.T) {
		stem := confluenceStem(t, scene)

		gotNext, gotOK, err := composite.ChooseNext(stem)
		wantNext, _, _ := hc.ChooseNext(stem)

		require.NoError(t, err)
		assert.True(t, gotOK)
		assert.Equal(t, wantNext, gotNext)
	})

	assert.Equal(t, "plan_a_plan_b(hill_climb,medial_axis)", composite.Name())
}

func TestNewStrategy(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)

	for _, kind := range allKinds {
		s, err := growth.NewStrategy(kind, mesh, water, growth.Params{Lookahead: 2})
		require.NoError(t, err)
		assert.Contains(t, s.Name(), string(kind))
	}

	s, err := growth.NewStrategy("", mesh, water, growth.Params{})
	require.NoError(t, err)
	assert.IsType(t, &growth.PlanAPlanB{}, s)

	_, err = growth.NewStrategy("random_walk", mesh, water, growth.Params{})
	assert.Error(t, err)
}

func TestGrow_ConfluenceRidge(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)
	task := &growth.Task{Seq: 1, Kind: growth.ConfluenceTask, Stem: confluenceStem(t, scene)}

	ridge, err := growth.Grow(context.Background(), hc, water, task, growth.DefaultMaxLength)

	require.NoError(t, err)
	if diff := cmp.Diff(testutil.ConfluenceRidge(), ridge); diff != "" {
		t.Errorf("ridge mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, task.Stem, 2, "the task stem must not change")
}

func TestGrow_MaxLength(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	s, err := growth.NewStrategy(growth.KindPlanAPlanB, mesh, water, growth.Params{Lookahead: 2})
	require.NoError(t, err)
	task := &growth.Task{Stem: confluenceStem(t, scene)}

	ridge, err := growth.Grow(context.Background(), s, water, task, 3)

	require.NoError(t, err)
	assert.Len(t, ridge, 3)
}

func TestGrow_StemAlreadyOnWater(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)
	stem := geom.Polyline{scene.Vertex(t, 5, 1), scene.Vertex(t, 7, 1)}

	ridge, err := growth.Grow(context.Background(), hc, water, &growth.Task{Stem: stem}, 0)

	require.NoError(t, err)
	assert.Equal(t, stem, ridge)
}

func TestGrow_ShortStem(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)

	_, err := growth.Grow(context.Background(), hc, water, &growth.Task{Stem: geom.Polyline{scene.Vertex(t, 5, 1)}}, 0)

	assert.ErrorIs(t, err, growth.ErrNoSeed)
}

// loopingStrategy always proposes the stem's anchor.
type loopingStrategy struct{}

func (loopingStrategy) Name() string                    { return "looping" }
func (loopingStrategy) CanChooseNext(geom.Polyline) bool { return true }
func (loopingStrategy) ChooseNext(stem geom.Polyline) (geom.Coordinate, bool, error) {
	return stem.First(), true, nil
}

func TestGrow_RejectsRevisits(t *testing.T) {
	scene := testutil.ConfluenceScene()
	_, water, _ := scene.Build(t)
	stem := geom.Polyline{scene.Vertex(t, 5, 1), scene.Vertex(t, 3, 1)}

	_, err := growth.Grow(context.Background(), loopingStrategy{}, water, &growth.Task{Stem: stem}, 0)

	assert.ErrorIs(t, err, growth.ErrInvariant)
	assert.True(t, growth.IsFatal(err))
}

// assertWellFormed checks the properties every grown ridge must have.
func assertWellFormed(t *testing.T, mesh *meshgraph.Graph, stem, ridge geom.Polyline) {
	t.Helper()
	require.GreaterOrEqual(t, len(ridge), len(stem))
	assert.Equal(t, stem, ridge[:len(stem)], "ridge must start with the stem")
	assert.False(t, ridge.SelfTouching(), "ridge %s touches itself", ridge.WKT())
	assert.LessOrEqual(t, len(ridge), mesh.VertexCount())
	for i := 1; i < len(ridge); i++ {
		neighbours := geom.Polyline(mesh.ConnectedCoordinates(ridge[i-1]))
		assert.True(t, neighbours.Contains2D(ridge[i]), "%s and %s are not adjacent", ridge[i-1], ridge[i])
	}
}

func TestGrow_TerminatesWithoutSelfIntersection(t *testing.T) {
	scene := testutil.LakeScene()
	mesh, water, _ := scene.Build(t)

	stems := []geom.Polyline{
		{scene.Vertex(t, 4, 3), scene.Vertex(t, 4, 4)},
		{scene.Vertex(t, 4, 3), scene.Vertex(t, 4, 2)},
		{scene.Vertex(t, 0, 0), scene.Vertex(t, 1, 1)},
		{scene.Vertex(t, 8, 6), scene.Vertex(t, 7, 5)},
	}
	for _, kind := range allKinds {
		for _, lookahead := range []int{1, 2, 3} {
			s, err := growth.NewStrategy(kind, mesh, water, growth.Params{Lookahead: lookahead})
			require.NoError(t, err)
			for _, stem := range stems {
				ridge, err := growth.Grow(context.Background(), s, water, &growth.Task{Stem: stem}, 0)
				require.NoError(t, err, "%s lookahead %d from %s", kind, lookahead, stem.WKT())
				assertWellFormed(t, mesh, stem, ridge)
			}
		}
	}
}

func TestHillClimb_StaysOnCrest(t *testing.T) {
	scene := testutil.ConfluenceScene()
	mesh, water, _ := scene.Build(t)
	hc := growth.NewHillClimb(mesh, water, 2, 0)
	stem := geom.Polyline{geom.XYZ(7, 1, 10), geom.XYZ(5, 1, 11), geom.XYZ(3, 1, 12)}

	next, ok, err := hc.ChooseNext(stem)

	require.NoError(t, err)
	require.True(t, ok)
	// Dipping to (3,-1,10.5) before climbing to (1,1,13) is a longer way to
	// the same summit, so the direct step wins.
	assert.Equal(t, geom.XYZ(1, 1, 13), next)
}

func TestHillClimb_Ordering(t *testing.T) {
	stem := straightStem(10)
	frontier := stem.Last()

	testCases := []struct {
		name      string
		lookahead int
		mesh      *fakeMesh
		want      geom.Coordinate
	}{
		{
			// Going back to (3,1) first leads to a much steeper climb, but a
			// path whose first step moves away still ranks ahead.
			name:      "first step moving away",
			lookahead: 2,
			mesh: newFakeMesh().
				link(frontier, geom.XYZ(3, 1, 10.5)).
				link(geom.XYZ(3, 1, 10.5), geom.XYZ(5, 3, 20)).
				link(frontier, geom.XYZ(5, 1, 11)),
			want: geom.XYZ(5, 1, 11),
		},
		{
			name:      "steeper net climb",
			lookahead: 1,
			mesh: newFakeMesh().
				link(frontier, geom.XYZ(5, -1, 11)).
				link(frontier, geom.XYZ(5, 1, 12)),
			want: geom.XYZ(5, 1, 12),
		},
		{
			name:      "equal climb rate prefers the longer lookahead",
			lookahead: 2,
			mesh: newFakeMesh().
				link(frontier, geom.XYZ(5, 0, 11)).
				link(geom.XYZ(5, 0, 11), geom.XYZ(6, 0, 12)).
				link(frontier, geom.XYZ(4, 1, 11)),
			want: geom.XYZ(5, 0, 11),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hc := growth.NewHillClimb(tc.mesh, newFakeWater(), tc.lookahead, 0)

			next, ok, err := hc.ChooseNext(stem)

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want, next)
		})
	}
}

func TestMedialAxis_Ordering(t *testing.T) {
	stem := straightStem(10)
	frontier := stem.Last()
	north, south := geom.XYZ(5, 1, 11), geom.XYZ(5, -1, 11)
	back := geom.XYZ(3, 1, 12)
	mesh := newFakeMesh().link(frontier, back).link(frontier, north).link(frontier, south)

	testCases := []struct {
		name  string
		water *fakeWater
		want  geom.Coordinate
	}{
		{
			name: "uphill pushes away from water",
			water: newFakeWater().
				at(frontier, 1, 0).
				at(north, 2, 1.5).
				at(south, 1.5, 0.1).
				at(back, 5, 0),
			want: north,
		},
		{
			// The best uphill step (2.5) is closer to water than the frontier
			// (3), so the most equidistant candidate moving away wins.
			name: "crested follows the medial axis",
			water: newFakeWater().
				at(frontier, 3, 0).
				at(north, 2.5, 1.5).
				at(south, 2, 0.1).
				at(back, 5, 0),
			want: south,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ma := growth.NewMedialAxis(mesh, tc.water)

			next, ok, err := ma.ChooseNext(stem)

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want, next)
		})
	}
}

func TestMedialAxis_NoValidNeighbour(t *testing.T) {
	stem := straightStem(10)
	wet := geom.XYZ(5, 0, 11)
	water := newFakeWater()
	water.wet[wet.Key()] = true
	ma := growth.NewMedialAxis(newFakeMesh().link(stem.Last(), wet).link(stem.Last(), stem[3]), water)

	_, ok, err := ma.ChooseNext(stem)

	require.NoError(t, err)
	assert.False(t, ok)
}
