package app

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/internal/widget"
	"github.com/philipparndt/fiducials/pkg/viewer"
)

// pickRadius is how close, in pixels, the cursor must be to grab a handle
const pickRadius = 12.0

// handleInput processes user input
func (app *App) handleInput() {
	mouse := rl.GetMousePosition()
	handles := app.Document.manager.VisibleHandles()
	targets, parts := pickTargets(handles)
	hit := viewer.NearestMarker(app.Camera.view, targets, float64(mouse.X), float64(mouse.Y), pickRadius)
	app.Interaction.hovered = -1
	if hit >= 0 {
		app.Interaction.hovered = parts[hit].handle
	}

	app.handleKeys(mouse)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Interaction.mouseDownPos = mouse
		app.Interaction.mouseMoved = false
		app.Interaction.isPanning = rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
		if !app.Interaction.isPanning && hit >= 0 {
			app.startDrag(handles[parts[hit].handle], parts[hit].part)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			app.Interaction.mouseMoved = true
			switch {
			case app.Interaction.dragging != nil:
				app.continueDrag(mouse)
			case app.Interaction.isPanning || rl.IsMouseButtonDown(rl.MouseMiddleButton):
				app.doPan(delta)
			default:
				app.Camera.view.Rotate(float64(-delta.Y)*0.01, float64(delta.X)*0.01)
			}
		}
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		if app.Interaction.dragging != nil {
			app.endDrag()
		} else if !app.Interaction.mouseMoved && app.Document.scene.Interaction().Mode() == mrml.Place {
			app.place(mouse)
		}
		app.Interaction.isPanning = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.Camera.view.Zoom(-float64(wheel) * 0.1)
	}
}

func (app *App) handleKeys(mouse rl.Vector2) {
	ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	scene := app.Document.scene

	switch {
	case ctrlPressed && rl.IsKeyPressed(rl.KeyS):
		app.save()
	case ctrlPressed && rl.IsKeyPressed(rl.KeyZ) && shiftPressed,
		ctrlPressed && rl.IsKeyPressed(rl.KeyY):
		app.redo()
	case ctrlPressed && rl.IsKeyPressed(rl.KeyZ):
		app.undo()
	case rl.IsKeyPressed(rl.KeyP):
		if _, err := app.Document.manager.OnKeyPress(markups.PlaceKey, float64(mouse.X), float64(mouse.Y)); err != nil {
			if errors.Is(err, markups.ErrNotPlaceMode) {
				app.setStatus("press M to enter place mode")
			} else {
				app.setStatus("place failed: %v", err)
			}
		} else {
			app.Document.dirty = true
		}
	case rl.IsKeyPressed(rl.KeyM):
		if scene.Interaction().Mode() == mrml.Place {
			scene.Interaction().SetMode(mrml.ViewTransform)
		} else {
			scene.Interaction().SetMode(mrml.Place)
		}
		app.setStatus("mode: %s", scene.Interaction().Mode())
	case rl.IsKeyPressed(rl.KeyN):
		persistent := !scene.Interaction().PlaceModePersistent()
		scene.Interaction().SetPlaceModePersistent(persistent)
		app.setStatus("persistent place mode: %v", persistent)
	case rl.IsKeyPressed(rl.KeyO):
		app.toggleOrientationMode()
	case rl.IsKeyPressed(rl.KeyL):
		app.toggleLock()
	case rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace):
		app.removeHovered()
	case rl.IsKeyPressed(rl.KeyEscape):
		app.cancelDrag()
	case rl.IsKeyPressed(rl.KeyHome):
		app.resetCameraView()
	case rl.IsKeyPressed(rl.KeyT):
		app.setCameraTopView()
	case rl.IsKeyPressed(rl.KeyOne):
		app.setCameraFrontView()
	case rl.IsKeyPressed(rl.KeyThree):
		app.setCameraSideView()
	case rl.IsKeyPressed(rl.KeyH):
		app.UI.showHelp = !app.UI.showHelp
	}
}

type pickPart struct {
	handle int
	part   dragPart
}

// pickTargets lists grabbable positions: every handle center plus the
// pointer of orientation handles
func pickTargets(handles []markups.VisibleHandle) ([]viewer.Marker, []pickPart) {
	targets := make([]viewer.Marker, 0, len(handles))
	parts := make([]pickPart, 0, len(handles))
	for i, h := range handles {
		targets = append(targets, viewer.Marker{Position: h.Position})
		parts = append(parts, pickPart{handle: i, part: partCenter})
		if h.Kind == widget.KindOrientation {
			targets = append(targets, viewer.Marker{Position: h.Pointer})
			parts = append(parts, pickPart{handle: i, part: partPointer})
		}
	}
	return targets, parts
}

func (app *App) startDrag(h markups.VisibleHandle, part dragPart) {
	handle := app.Document.manager.Handle(h)
	if handle == nil {
		return
	}
	var pressed bool
	switch w := handle.(type) {
	case *widget.PositionHandle:
		pressed = w.Press()
	case *widget.OrientationHandle:
		pressed = w.Press()
	}
	if !pressed {
		if h.Locked {
			app.setStatus("%s point %d is locked", h.Node, h.Index)
		}
		return
	}
	app.Interaction.dragging = handle
	app.Interaction.dragPart = part
	app.Interaction.dragAnchor = h
}

func (app *App) continueDrag(mouse rl.Vector2) {
	anchor := app.Interaction.dragAnchor.Position
	if app.Interaction.dragPart == partPointer {
		anchor = app.Interaction.dragAnchor.Pointer
	}
	target := app.Camera.view.PlaneToWorld(float64(mouse.X), float64(mouse.Y), anchor)

	switch w := app.Interaction.dragging.(type) {
	case *widget.PositionHandle:
		w.DragTo(target)
	case *widget.OrientationHandle:
		if app.Interaction.dragPart == partPointer {
			w.DragPointerTo(target)
		} else {
			w.DragCenterTo(target)
		}
	}
	app.Document.dirty = true
}

func (app *App) endDrag() {
	switch w := app.Interaction.dragging.(type) {
	case *widget.PositionHandle:
		w.Release()
	case *widget.OrientationHandle:
		w.Release()
	}
	app.Interaction.dragging = nil
}

// cancelDrag puts the handle back where the drag started
func (app *App) cancelDrag() {
	if app.Interaction.dragging == nil {
		return
	}
	anchor := app.Interaction.dragAnchor
	switch w := app.Interaction.dragging.(type) {
	case *widget.PositionHandle:
		w.DragTo(anchor.Position)
	case *widget.OrientationHandle:
		w.DragCenterTo(anchor.Position)
		w.DragPointerTo(anchor.Pointer)
	}
	app.endDrag()
}

func (app *App) place(mouse rl.Vector2) {
	pl, err := app.Document.manager.OnClick(float64(mouse.X), float64(mouse.Y), "")
	if err != nil {
		app.setStatus("place failed: %v", err)
		return
	}
	app.Document.dirty = true
	app.setStatus("placed %s point %d", pl.Node, pl.Index)
}

func (app *App) hoveredHandle() (markups.VisibleHandle, bool) {
	handles := app.Document.manager.VisibleHandles()
	i := app.Interaction.hovered
	if i < 0 || i >= len(handles) {
		return markups.VisibleHandle{}, false
	}
	return handles[i], true
}

func (app *App) activeNode() *mrml.FiducialNode {
	if h, ok := app.hoveredHandle(); ok {
		return app.Document.scene.FiducialNode(h.Node)
	}
	scene := app.Document.scene
	if n := scene.FiducialNode(scene.Selection().ActivePlaceNodeID()); n != nil {
		return n
	}
	if nodes := scene.FiducialNodes(); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func (app *App) toggleOrientationMode() {
	node := app.activeNode()
	if node == nil {
		return
	}
	if node.Mode() == mrml.PositionMode {
		node.SetMode(mrml.OrientationMode)
	} else {
		node.SetMode(mrml.PositionMode)
	}
	app.Document.dirty = true
	app.setStatus("%s shows %s handles", node.ID(), node.Mode())
}

func (app *App) toggleLock() {
	h, ok := app.hoveredHandle()
	if !ok {
		if node := app.activeNode(); node != nil {
			node.SetLocked(!node.Locked())
			app.setStatus("%s locked: %v", node.ID(), node.Locked())
			app.Document.dirty = true
		}
		return
	}
	node := app.Document.scene.FiducialNode(h.Node)
	p, err := node.Point(h.Index)
	if err != nil {
		return
	}
	if err := app.Document.scene.SaveStateForUndo(node); err != nil {
		app.log.Error("undo checkpoint", "error", err)
	}
	_ = node.SetPointLocked(h.Index, !p.Locked)
	app.Document.dirty = true
	app.setStatus("%s point %d locked: %v", node.ID(), h.Index, !p.Locked)
}

func (app *App) removeHovered() {
	h, ok := app.hoveredHandle()
	if !ok {
		return
	}
	node := app.Document.scene.FiducialNode(h.Node)
	if err := app.Document.scene.SaveStateForUndo(node); err != nil {
		app.log.Error("undo checkpoint", "error", err)
	}
	if err := node.RemovePoint(h.Index); err != nil {
		app.setStatus("remove failed: %v", err)
		return
	}
	app.Interaction.hovered = -1
	app.Document.dirty = true
	app.setStatus("removed %s point %d", h.Node, h.Index)
}

func (app *App) undo() {
	app.cancelDrag()
	if err := app.Document.scene.Undo(); err != nil {
		app.setStatus("undo: %v", err)
		return
	}
	app.Document.dirty = true
	app.setStatus("undone")
}

func (app *App) redo() {
	app.cancelDrag()
	if err := app.Document.scene.Redo(); err != nil {
		app.setStatus("redo: %v", err)
		return
	}
	app.Document.dirty = true
	app.setStatus("redone")
}
