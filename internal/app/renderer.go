package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/widget"
)

// handleSize is the drawn size of a glyph at scale 1, in world units
const handleSize = 0.5

func (app *App) drawGrid() {
	spacing := gridSpacing(app.cfg.View.Size)
	rl.DrawGrid(20, spacing)
}

// drawHandles draws every visible handle in 3D
func (app *App) drawHandles(handles []markups.VisibleHandle) {
	for i, h := range handles {
		col := handleColor(h.Style)
		if i == app.Interaction.hovered {
			col = rl.Yellow
		}
		pos := toRL(h.Position)
		size := float32(handleSize * h.Style.Scale)

		switch h.Kind {
		case widget.KindOrientation:
			pointer := toRL(h.Pointer)
			rl.DrawSphereWires(pos, size, 8, 8, col)
			rl.DrawLine3D(pos, pointer, col)
			rl.DrawSphere(pointer, size/4, col)
		default:
			drawGlyph(h.Glyph, pos, size, col)
		}
		if h.Locked {
			rl.DrawCubeWires(pos, size*2.2, size*2.2, size*2.2, rl.Gray)
		}
	}
}

func drawGlyph(g widget.Glyph, pos rl.Vector3, size float32, col rl.Color) {
	if g.Sphere {
		rl.DrawSphereEx(pos, size*float32(g.Radius)*2, int32(g.Resolution), int32(g.Resolution), col)
		return
	}
	switch g.Name {
	case "Square2D", "Diamond2D":
		rl.DrawCube(pos, size, size, size, col)
	case "Cross2D", "ThickCross2D", "StarBurst2D":
		rl.DrawLine3D(rl.Vector3{X: pos.X - size, Y: pos.Y, Z: pos.Z}, rl.Vector3{X: pos.X + size, Y: pos.Y, Z: pos.Z}, col)
		rl.DrawLine3D(rl.Vector3{X: pos.X, Y: pos.Y - size, Z: pos.Z}, rl.Vector3{X: pos.X, Y: pos.Y + size, Z: pos.Z}, col)
		rl.DrawLine3D(rl.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z - size}, rl.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z + size}, col)
		rl.DrawSphere(pos, size/4, col)
	default:
		rl.DrawSphere(pos, size/2, col)
	}
}

// drawLabels draws handle labels in screen space
func (app *App) drawLabels(handles []markups.VisibleHandle) {
	for _, h := range handles {
		if h.Label == "" || h.Kind != widget.KindPosition {
			continue
		}
		screen := rl.GetWorldToScreen(toRL(h.Position), app.Camera.camera)
		rl.DrawText(h.Label, int32(screen.X)+8, int32(screen.Y)-18, 16, handleColor(h.Style))
	}
}

func handleColor(s widget.Style) rl.Color {
	return rl.NewColor(
		uint8(s.Color[0]*255),
		uint8(s.Color[1]*255),
		uint8(s.Color[2]*255),
		uint8(s.Opacity*255),
	)
}
