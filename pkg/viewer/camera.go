package viewer

import (
	"math"

	"github.com/philipparndt/fiducials/pkg/geometry"
)

// Camera is an orbiting perspective camera over a viewport of Width x Height
// pixels. It maps display coordinates to world coordinates on the focal
// plane through Target.
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // vertical field of view in radians
	Distance  float64
	RotationX float64 // elevation
	RotationY float64 // azimuth
	Width     float64
	Height    float64
}

const (
	minDistance  = 0.1
	maxElevation = math.Pi/2 - 0.1
)

// NewCamera creates a camera looking down -Z at center from far enough to
// frame an object of the given size
func NewCamera(center geometry.Vector3, size, width, height float64) *Camera {
	distance := math.Max(size*2.0, minDistance)
	return &Camera{
		Position: center.Add(geometry.NewVector3(0, 0, distance)),
		Target:   center,
		Up:       geometry.AxisY,
		FOV:      math.Pi / 4,
		Distance: distance,
		Width:    width,
		Height:   height,
	}
}

// Resize changes the viewport
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

// UpdatePosition places the camera on its orbit around Target
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)
	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate orbits the camera; elevation is clamped short of the poles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX = math.Max(-maxElevation, math.Min(maxElevation, c.RotationX+deltaX))
	c.RotationY += deltaY
	c.UpdatePosition()
}

// Zoom scales the orbit distance by (1 + delta)
func (c *Camera) Zoom(delta float64) {
	c.Distance = math.Max(minDistance, c.Distance*(1.0+delta))
	c.UpdatePosition()
}

// Focus moves the orbit center
func (c *Camera) Focus(target geometry.Vector3) {
	c.Target = target
	c.UpdatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

func (c *Camera) aspect() float64 {
	if c.Height == 0 {
		return 1
	}
	return c.Width / c.Height
}

// Project maps a world point to display coordinates and its depth along
// the view direction
func (c *Camera) Project(point geometry.Vector3) (x, y, depth float64) {
	forward, right, up := c.basis()
	relative := point.Sub(c.Position)
	depth = relative.Dot(forward)
	z := math.Max(depth, 0.01)

	fovScale := math.Tan(c.FOV / 2)
	x = (relative.Dot(right)/(z*fovScale*c.aspect()))*(c.Width/2) + c.Width/2
	y = (-relative.Dot(up)/(z*fovScale))*(c.Height/2) + c.Height/2
	return x, y, depth
}

// Unproject returns the eye ray through a display position
func (c *Camera) Unproject(x, y float64) (origin, direction geometry.Vector3) {
	ndcX := 2.0*x/c.Width - 1.0
	ndcY := 1.0 - 2.0*y/c.Height

	forward, right, up := c.basis()
	fovScale := math.Tan(c.FOV / 2)
	direction = forward.
		Add(right.Mul(ndcX * fovScale * c.aspect())).
		Add(up.Mul(ndcY * fovScale)).
		Normalize()
	return c.Position, direction
}

// DisplayToWorld intersects the eye ray through (x, y) with the focal plane
func (c *Camera) DisplayToWorld(x, y float64) geometry.Vector3 {
	return c.PlaneToWorld(x, y, c.Target)
}

// PlaneToWorld intersects the eye ray through (x, y) with the plane facing
// the camera through point
func (c *Camera) PlaneToWorld(x, y float64, point geometry.Vector3) geometry.Vector3 {
	origin, direction := c.Unproject(x, y)
	forward, _, _ := c.basis()
	t := point.Sub(origin).Dot(forward) / direction.Dot(forward)
	return origin.Add(direction.Mul(t))
}

// WorldToDisplay projects a world point to display coordinates
func (c *Camera) WorldToDisplay(p geometry.Vector3) (x, y float64) {
	x, y, _ = c.Project(p)
	return x, y
}
