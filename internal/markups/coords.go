package markups

import "github.com/philipparndt/fiducials/pkg/geometry"

// CoordinateAdapter converts between 2D display coordinates of the active
// view and 3D world coordinates.
type CoordinateAdapter interface {
	DisplayToWorld(x, y float64) geometry.Vector3
	WorldToDisplay(p geometry.Vector3) (x, y float64)
}

// worldTolerance is the squared distance below which two world positions
// are considered equal
const worldTolerance = 1e-6

// WorldCoordinatesChanged reports whether a and b differ beyond the
// comparison tolerance
func WorldCoordinatesChanged(a, b geometry.Vector3) bool {
	return !a.ApproxEqual(b, worldTolerance)
}
