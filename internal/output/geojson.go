package output

import (
	"fmt"
	"io"
	"math"

	geojson "github.com/paulmach/go.geojson"
	"github.com/vk/ridgegrow/internal/geom"
	"github.com/vk/ridgegrow/internal/grower"
)

// Coordinates converts a polyline to GeoJSON positions. Positions carry
// elevation only when the vertex has one.
func Coordinates(line geom.Polyline) [][]float64 {
	out := make([][]float64, len(line))
	for i, c := range line {
		if math.IsNaN(c.Z) {
			out[i] = []float64{c.X, c.Y}
			continue
		}
		out[i] = []float64{c.X, c.Y, c.Z}
	}
	return out
}

// Feature converts a single ridge to a LineString feature.
func Feature(r grower.Ridge) *geojson.Feature {
	f := geojson.NewLineStringFeature(Coordinates(r.Line))
	f.ID = r.ID
	f.SetProperty("id", r.ID)
	f.SetProperty("kind", r.Kind.String())
	f.SetProperty("length", r.Line.Length())
	f.SetProperty("points", len(r.Line))
	if r.AdjacentWater != nil {
		f.SetProperty("left_water", string(r.AdjacentWater.Left))
		f.SetProperty("right_water", string(r.AdjacentWater.Right))
	}
	return f
}

// FeatureCollection converts every ridge of res, in order.
func FeatureCollection(res *grower.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range res.Ridges {
		fc.AddFeature(Feature(r))
	}
	return fc
}

// WriteGeoJSON writes the ridges of res to w followed by a newline.
func WriteGeoJSON(w io.Writer, res *grower.Result) error {
	data, err := FeatureCollection(res).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding ridges: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing ridges: %w", err)
	}
	return nil
}
