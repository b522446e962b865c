package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/fiducials/version"
)

var helpLines = []string{
	"M      toggle place mode",
	"N      toggle persistent placement",
	"P      place point at cursor (place mode)",
	"O      toggle orientation handles",
	"L      lock hovered point / node",
	"Del    remove hovered point",
	"Ctrl+Z undo, Ctrl+Y redo, Ctrl+S save",
	"Home   reset view, T top, 1 front, 3 side",
	"Shift+drag pan, wheel zoom, Ctrl+Q quit",
}

// drawUI draws the status overlay
func (app *App) drawUI() {
	y := int32(10)
	lineHeight := int32(20)
	scene := app.Document.scene

	mode := scene.Interaction().Mode().String()
	if scene.Interaction().PlacingPersistently() {
		mode += " (persistent)"
	}
	rl.DrawText(fmt.Sprintf("Mode: %s", mode), 10, y, 18, rl.RayWhite)
	y += lineHeight

	for _, n := range scene.FiducialNodes() {
		text := fmt.Sprintf("%s %q: %d points, %s", n.ID(), n.Name(), n.NumberOfPoints(), n.Mode())
		if n.Locked() {
			text += ", locked"
		}
		if n.ID() == scene.Selection().ActivePlaceNodeID() {
			text = "* " + text
		}
		rl.DrawText(text, 10, y, 14, rl.LightGray)
		y += lineHeight
	}

	if app.UI.showHelp {
		y += lineHeight / 2
		for _, line := range helpLines {
			rl.DrawText(line, 10, y, 14, rl.Gray)
			y += lineHeight
		}
	}

	screenHeight := int32(rl.GetScreenHeight())
	screenWidth := int32(rl.GetScreenWidth())
	if app.UI.status != "" && time.Since(app.UI.statusTime) < 4*time.Second {
		rl.DrawText(app.UI.status, 10, screenHeight-28, 16, rl.Yellow)
	}

	title := app.Document.path
	if app.Document.dirty {
		title += " *"
	}
	versionText := fmt.Sprintf("%s  v%s  (H for help)", title, version.GetVersion())
	width := rl.MeasureText(versionText, 12)
	rl.DrawText(versionText, screenWidth-width-10, screenHeight-20, 12, rl.DarkGray)
}
