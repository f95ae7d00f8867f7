package geom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Key is the 2D identity of a Coordinate.
type Key struct {
	X, Y float64
}

// Coordinate is a mesh or water vertex. Z is NaN for sources without elevation.
type Coordinate struct {
	X, Y, Z float64
}

// XY returns a coordinate without elevation.
func XY(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: math.NaN()}
}

// XYZ returns a coordinate with elevation.
func XYZ(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z}
}

// Key returns the 2D identity used for loop detection and map lookups.
func (c Coordinate) Key() Key {
	return Key{X: c.X, Y: c.Y}
}

// Coordinate turns a key back into a coordinate without elevation.
func (k Key) Coordinate() Coordinate {
	return XY(k.X, k.Y)
}

// Equals2D reports whether both coordinates share (x, y).
func (c Coordinate) Equals2D(o Coordinate) bool {
	return c.X == o.X && c.Y == o.Y
}

// HasZ reports whether the elevation is usable.
func (c Coordinate) HasZ() bool {
	return !math.IsNaN(c.Z) && !math.IsInf(c.Z, 0)
}

// Point projects the coordinate onto the plane.
func (c Coordinate) Point() r2.Point {
	return r2.Point{X: c.X, Y: c.Y}
}

// Distance is the planar distance between two coordinates.
func (c Coordinate) Distance(o Coordinate) float64 {
	return c.Point().Sub(o.Point()).Norm()
}

// Bearing is the planar direction from c towards o, in radians in (-π, π].
func (c Coordinate) Bearing(o Coordinate) float64 {
	d := o.Point().Sub(c.Point())
	return math.Atan2(d.Y, d.X)
}

func (c Coordinate) String() string {
	if c.HasZ() {
		return fmt.Sprintf("(%g %g %g)", c.X, c.Y, c.Z)
	}
	return fmt.Sprintf("(%g %g)", c.X, c.Y)
}

// FromPoint lifts a planar point back into a coordinate without elevation.
func FromPoint(p r2.Point) Coordinate {
	return XY(p.X, p.Y)
}
