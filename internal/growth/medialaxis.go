package growth

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/vk/ridgegrow/internal/geom"
)

// MedialAxis takes single steps. It pushes away from water while the
// terrain rises and, once the best uphill step would move closer to water,
// follows the line most equidistant from the two nearest water bodies.
type MedialAxis struct {
	mesh  MeshGraph
	water WaterIndex
}

func NewMedialAxis(mesh MeshGraph, water WaterIndex) *MedialAxis {
	return &MedialAxis{mesh: mesh, water: water}
}

func (m *MedialAxis) Name() string { return string(KindMedialAxis) }

func (m *MedialAxis) CanChooseNext(stem geom.Polyline) bool {
	_, ok, err := m.ChooseNext(stem)
	return ok && err == nil
}

type medialCandidate struct {
	coord    geom.Coordinate
	away     bool
	nearest  float64
	diffPair float64
}

func (m *MedialAxis) ChooseNext(stem geom.Polyline) (geom.Coordinate, bool, error) {
	if len(stem) == 0 {
		return geom.Coordinate{}, false, nil
	}
	frontier := stem.Last()

	var cands []medialCandidate
	for _, n := range m.mesh.ConnectedCoordinates(frontier) {
		if !IsValidRidgeCoord(n, stem, m.water) {
			continue
		}
		cands = append(cands, medialCandidate{
			coord:    n,
			away:     IsMovingAway(stem, n),
			nearest:  m.water.NearestWaterDistance(n),
			diffPair: m.water.DistanceDiffBetweenTwoNearestWaters(n),
		})
	}
	if len(cands) == 0 {
		return geom.Coordinate{}, false, nil
	}

	slices.SortStableFunc(cands, uphill)
	if cands[0].nearest < m.water.NearestWaterDistance(frontier) {
		// Crested: the best push outwards already descends towards water.
		slices.SortStableFunc(cands, downhill)
	}

	if err := checkAwayFirst(cands); err != nil {
		return geom.Coordinate{}, false, err
	}
	return cands[0].coord, true, nil
}

func uphill(a, b medialCandidate) int {
	if c := preferTrue(a.away, b.away); c != 0 {
		return c
	}
	return cmp.Compare(b.nearest, a.nearest)
}

func downhill(a, b medialCandidate) int {
	if c := preferTrue(a.away, b.away); c != 0 {
		return c
	}
	return cmp.Compare(a.diffPair, b.diffPair)
}

// checkAwayFirst asserts that no candidate moving back towards the stem is
// ranked ahead of one moving away.
func checkAwayFirst(cands []medialCandidate) error {
	seenBack := false
	for _, c := range cands {
		if !c.away {
			seenBack = true
			continue
		}
		if seenBack {
			return fmt.Errorf("%w: medial axis ranked a candidate moving back ahead of %s", ErrInvariant, c.coord)
		}
	}
	return nil
}
