package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// resetCameraView resets the camera to the default view
func (app *App) resetCameraView() {
	app.Camera.view.Distance = app.Camera.defaultDist
	app.Camera.view.RotationX = app.Camera.defaultAngleX
	app.Camera.view.RotationY = app.Camera.defaultAngleY
	app.Camera.view.Focus(app.sceneCenter())
}

// setCameraTopView looks down the -Y axis
func (app *App) setCameraTopView() {
	app.setCameraAngles(math.Pi/2, 0)
}

// setCameraFrontView looks down the -Z axis
func (app *App) setCameraFrontView() {
	app.setCameraAngles(0, 0)
}

// setCameraSideView looks down the -X axis
func (app *App) setCameraSideView() {
	app.setCameraAngles(0, math.Pi/2)
}

func (app *App) setCameraAngles(x, y float64) {
	app.Camera.view.RotationX = 0
	app.Camera.view.RotationY = y
	app.Camera.view.Rotate(x, 0)
}

// updateCamera mirrors the orbit camera into raylib
func (app *App) updateCamera() {
	v := app.Camera.view
	v.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	app.Camera.camera.Position = toRL(v.Position)
	app.Camera.camera.Target = toRL(v.Target)
	app.Camera.camera.Up = toRL(v.Up)
	app.Camera.camera.Fovy = float32(v.FOV * 180 / math.Pi)
}

// doPan moves the orbit center in the view plane
func (app *App) doPan(delta rl.Vector2) {
	v := app.Camera.view
	forward := v.Target.Sub(v.Position).Normalize()
	right := forward.Cross(v.Up).Normalize()
	up := right.Cross(forward).Normalize()

	panSpeed := v.Distance * 0.001
	move := right.Mul(-float64(delta.X) * panSpeed).Add(up.Mul(float64(delta.Y) * panSpeed))
	v.Focus(v.Target.Add(move))
}

// sceneCenter is the centroid of every point, or the origin
func (app *App) sceneCenter() geometry.Vector3 {
	var sum geometry.Vector3
	count := 0
	for _, n := range app.Document.scene.FiducialNodes() {
		for i := range n.NumberOfPoints() {
			p, _ := n.WorldPosition(i)
			sum = sum.Add(p)
			count++
		}
	}
	if count == 0 {
		return geometry.Vector3{}
	}
	return sum.Mul(1 / float64(count))
}

func toRL(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
