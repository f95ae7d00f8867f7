package output

import (
	"bytes"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/growth"
	"github.com/vk/ridgegrow/internal/grower"
)

func TestCoordinates_DropsMissingElevation(t *testing.T) {
	line := geom.Polyline{geom.XY(1, 2), geom.XYZ(3, 4, 5)}

	assert.Equal(t, [][]float64{{1, 2}, {3, 4, 5}}, Coordinates(line))
}

func TestWriteGeoJSON(t *testing.T) {
	// --- Arrange ---
	res := &grower.Result{Ridges: []grower.Ridge{
		{
			ID:            "ridge-1",
			Kind:          growth.ConfluenceTask,
			Line:          geom.Polyline{geom.XYZ(0, 0, 1), geom.XYZ(3, 4, 2)},
			AdjacentWater: &growth.AdjacentWaterPair{Left: "a#0", Right: "b#0"},
		},
		{
			ID:   "ridge-2",
			Kind: growth.IsolatedLakeTask,
			Line: geom.Polyline{geom.XYZ(9, 9, 1), geom.XYZ(9, 10, 2)},
		},
	}}
	var buf bytes.Buffer

	// --- Act ---
	err := WriteGeoJSON(&buf, res)

	// --- Assert ---
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	require.True(t, first.Geometry.IsLineString())
	assert.Equal(t, [][]float64{{0, 0, 1}, {3, 4, 2}}, first.Geometry.LineString)
	assert.Equal(t, "confluence", first.PropertyMustString("kind"))
	assert.Equal(t, "a#0", first.PropertyMustString("left_water"))
	assert.Equal(t, "b#0", first.PropertyMustString("right_water"))
	assert.InDelta(t, 5.0, first.PropertyMustFloat64("length"), 1e-9)

	second := fc.Features[1]
	assert.Equal(t, "isolated_lake", second.PropertyMustString("kind"))
	_, hasLeft := second.Properties["left_water"]
	assert.False(t, hasLeft)
}

func TestWriteGeoJSON_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteGeoJSON(&buf, &grower.Result{}))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}
