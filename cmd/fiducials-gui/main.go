package main

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/fiducials/internal/config"
	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/mrml"
	handle "github.com/philipparndt/fiducials/internal/widget"
	"github.com/philipparndt/fiducials/pkg/geometry"
	"github.com/philipparndt/fiducials/pkg/viewer"
)

type App struct {
	window  fyne.Window
	cfg     config.Config
	log     *slog.Logger
	path    string
	scene   *mrml.Scene
	manager *markups.Manager
	sub     mrml.Subscription
	view    *viewer.MarkerView
	handles []markups.VisibleHandle
	info    *PointInfo
}

type PointInfo struct {
	statusLabel  *widget.Label
	nodeLabel    *widget.Label
	pointList    *widget.List
	placeCheck   *widget.Check
	persistCheck *widget.Check
	orientCheck  *widget.Check
	lockCheck    *widget.Check
	xEntry       *widget.Entry
	yEntry       *widget.Entry
	zEntry       *widget.Entry
	selected     int
}

func main() {
	cfg, log := setup()

	a := app.New()
	w := a.NewWindow("Fiducials - Point Inspector")

	appInstance := &App{
		window: w,
		cfg:    cfg,
		log:    log,
	}

	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(float32(cfg.View.Width), float32(cfg.View.Height)))
	w.SetOnClosed(appInstance.close)
	w.ShowAndRun()
}

func setup() (config.Config, *slog.Logger) {
	cfg := config.Default()
	path, err := config.Find(".")
	if err == nil {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, log
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to Fiducials")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a scene file, or start a new one")

	openButton := widget.NewButton("Open Scene", func() {
		a.showFileDialog()
	})
	newButton := widget.NewButton("New Scene", func() {
		a.showSaveDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(container.NewHBox(openButton, newButton)),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) showSaveDialog() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		a.loadFile(path)
	}, a.window)
}

func (a *App) loadFile(filename string) {
	scene := mrml.NewScene(mrml.WithLogger(a.log), mrml.WithUndoCapacity(a.cfg.Undo.Capacity))
	if err := scene.LoadFile(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		dialog.ShowError(fmt.Errorf("failed to load scene: %w", err), a.window)
		return
	}

	a.close()
	a.path = filename
	a.scene = scene
	camera := viewer.NewCamera(sceneCenter(scene), a.cfg.View.Size, float64(a.cfg.View.Width), float64(a.cfg.View.Height))
	a.manager = markups.New(scene, camera,
		markups.WithLogger(a.log),
		markups.WithDefaultStyle(a.cfg.Display),
		markups.WithNodeName(a.cfg.Placement.NodeName),
	)
	a.view = viewer.NewMarkerView(camera, a.markers)
	a.view.SetOnTap(a.onTap)
	a.setupMainUI()
	a.sub = scene.Observe(func(mrml.Event) { a.refresh() })
	a.refresh()
}

func (a *App) close() {
	if a.manager == nil {
		return
	}
	a.sub.Remove()
	a.manager.Close()
	a.manager = nil
}

func (a *App) setupMainUI() {
	a.info = &PointInfo{
		statusLabel: widget.NewLabel(""),
		nodeLabel:   widget.NewLabel(""),
		xEntry:      widget.NewEntry(),
		yEntry:      widget.NewEntry(),
		zEntry:      widget.NewEntry(),
		selected:    -1,
	}
	a.info.nodeLabel.TextStyle = fyne.TextStyle{Bold: true}

	a.info.pointList = widget.NewList(
		func() int {
			if node := a.activeNode(); node != nil {
				return node.NumberOfPoints()
			}
			return 0
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			node := a.activeNode()
			if node == nil {
				return
			}
			p, err := node.Point(id)
			if err != nil {
				return
			}
			world, _ := node.WorldPosition(id)
			obj.(*widget.Label).SetText(fmt.Sprintf("%d  %s  (%.2f, %.2f, %.2f)%s",
				id, p.Label, world.X, world.Y, world.Z, lockMark(p.Locked)))
		},
	)
	a.info.pointList.OnSelected = a.selectPoint

	interaction := a.scene.Interaction()
	a.info.placeCheck = widget.NewCheck("Place points", func(checked bool) {
		if checked {
			interaction.SetMode(mrml.Place)
		} else {
			interaction.SetMode(mrml.ViewTransform)
		}
	})
	a.info.persistCheck = widget.NewCheck("Keep placing", func(checked bool) {
		interaction.SetPlaceModePersistent(checked)
	})
	a.info.orientCheck = widget.NewCheck("Edit orientation", func(checked bool) {
		if node := a.activeNode(); node != nil {
			if checked {
				node.SetMode(mrml.OrientationMode)
			} else {
				node.SetMode(mrml.PositionMode)
			}
		}
	})
	a.info.lockCheck = widget.NewCheck("Lock point-set", func(checked bool) {
		if node := a.activeNode(); node != nil {
			node.SetLocked(checked)
		}
	})

	moveButton := widget.NewButton("Move Selected", a.moveSelected)
	removeButton := widget.NewButton("Remove Selected", a.removeSelected)
	undoButton := widget.NewButton("Undo", func() { a.report(a.scene.Undo()) })
	redoButton := widget.NewButton("Redo", func() { a.report(a.scene.Redo()) })
	saveButton := widget.NewButton("Save", a.save)
	openButton := widget.NewButton("Open File", a.showFileDialog)

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Enable 'Place points' and click to place\n" +
			"• Click a point to select it\n" +
			"• Drag to rotate the view\n" +
			"• Scroll to zoom in/out",
	)
	instructions.Wrapping = fyne.TextWrapWord

	moveForm := container.NewGridWithColumns(3, a.info.xEntry, a.info.yEntry, a.info.zEntry)

	infoPanel := container.NewVBox(
		a.info.nodeLabel,
		widget.NewSeparator(),
		container.NewGridWrap(fyne.NewSize(300, 240), a.info.pointList),
		widget.NewSeparator(),
		widget.NewLabel("Selected point:"),
		moveForm,
		container.NewGridWithColumns(2, moveButton, removeButton),
		widget.NewSeparator(),
		widget.NewLabel("Interaction:"),
		a.info.placeCheck,
		a.info.persistCheck,
		a.info.orientCheck,
		a.info.lockCheck,
		widget.NewSeparator(),
		container.NewGridWithColumns(2, undoButton, redoButton),
		instructions,
		widget.NewSeparator(),
		saveButton,
		openButton,
		a.info.statusLabel,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(320, 0))

	content := container.NewBorder(
		nil,
		nil,
		nil,
		infoScroll,
		a.view,
	)

	a.window.SetContent(content)
	a.window.SetTitle(fmt.Sprintf("Fiducials - %s", a.path))
}

// markers converts the visible handles; the index of a marker is the index
// into a.handles
func (a *App) markers() []viewer.Marker {
	if a.manager == nil {
		return nil
	}
	a.handles = a.manager.VisibleHandles()
	markers := make([]viewer.Marker, len(a.handles))
	for i, h := range a.handles {
		markers[i] = viewer.Marker{
			Position:   h.Position,
			Pointer:    h.Pointer,
			HasPointer: h.Kind == handle.KindOrientation,
			Label:      h.Label,
			Color:      handleColor(h),
			Selected:   h.Selected,
		}
	}
	return markers
}

func handleColor(h markups.VisibleHandle) color.Color {
	if h.Locked {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	c := h.Style.Color
	alpha := h.Style.Opacity
	if alpha == 0 {
		alpha = 1
	}
	return color.NRGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: uint8(alpha * 255),
	}
}

func (a *App) onTap(x, y float64, nearest int) {
	if a.scene.Interaction().Mode() == mrml.Place {
		placed, err := a.manager.OnClick(x, y, "")
		if err != nil {
			a.report(err)
			return
		}
		a.setStatus("Placed point %d in %s", placed.Index, placed.Node)
		return
	}
	if nearest < 0 || nearest >= len(a.handles) {
		return
	}
	h := a.handles[nearest]
	a.scene.Selection().SetActivePlaceNodeID(h.Node)
	a.info.pointList.Select(h.Index)
}

func (a *App) selectPoint(id widget.ListItemID) {
	node := a.activeNode()
	if node == nil {
		return
	}
	for i := range node.NumberOfPoints() {
		_ = node.SetPointSelected(i, i == id)
	}
	a.info.selected = id
	if world, err := node.WorldPosition(id); err == nil {
		a.info.xEntry.SetText(formatFloat(world.X))
		a.info.yEntry.SetText(formatFloat(world.Y))
		a.info.zEntry.SetText(formatFloat(world.Z))
	}
}

// moveSelected drags the position handle of the selected point to the
// entered coordinates
func (a *App) moveSelected() {
	node := a.activeNode()
	if node == nil || a.info.selected < 0 {
		return
	}
	var v [3]float64
	for i, entry := range []*widget.Entry{a.info.xEntry, a.info.yEntry, a.info.zEntry} {
		f, err := strconv.ParseFloat(entry.Text, 64)
		if err != nil {
			a.report(fmt.Errorf("coordinate %q: %w", entry.Text, err))
			return
		}
		v[i] = f
	}
	ws, ok := a.manager.Widgets(node.ID())
	if !ok {
		return
	}
	h := ws.Position(a.info.selected)
	if h == nil || !h.Press() {
		a.setStatus("Point is locked or hidden")
		return
	}
	h.DragTo(geometry.Vector3FromArray(v))
	h.Release()
}

func (a *App) removeSelected() {
	node := a.activeNode()
	if node == nil || a.info.selected < 0 {
		return
	}
	if err := a.scene.SaveStateForUndo(node); err != nil {
		a.report(err)
		return
	}
	a.report(node.RemovePoint(a.info.selected))
	a.info.selected = -1
	a.info.pointList.UnselectAll()
}

func (a *App) save() {
	if err := a.scene.SaveFile(a.path); err != nil {
		a.report(err)
		return
	}
	a.setStatus("Saved %s", a.path)
}

func (a *App) activeNode() *mrml.FiducialNode {
	if a.scene == nil {
		return nil
	}
	return a.scene.FiducialNode(a.scene.Selection().ActivePlaceNodeID())
}

func (a *App) refresh() {
	if a.info == nil {
		return
	}
	interaction := a.scene.Interaction()
	a.info.placeCheck.SetChecked(interaction.Mode() == mrml.Place)
	a.info.persistCheck.SetChecked(interaction.PlaceModePersistent())

	if node := a.activeNode(); node != nil {
		a.info.nodeLabel.SetText(fmt.Sprintf("%s (%s): %d points", node.Name(), node.ID(), node.NumberOfPoints()))
		a.info.orientCheck.SetChecked(node.Mode() == mrml.OrientationMode)
		a.info.lockCheck.SetChecked(node.Locked())
	} else {
		a.info.nodeLabel.SetText("No active point-set")
	}
	a.info.pointList.Refresh()
	a.view.Render(a.view.Camera().Width, a.view.Camera().Height)
}

func (a *App) report(err error) {
	if err != nil {
		a.setStatus("Error: %v", err)
	}
}

func (a *App) setStatus(format string, args ...any) {
	if a.info != nil {
		a.info.statusLabel.SetText(fmt.Sprintf(format, args...))
	}
}

func sceneCenter(scene *mrml.Scene) geometry.Vector3 {
	var sum geometry.Vector3
	count := 0
	for _, node := range scene.FiducialNodes() {
		for i := range node.NumberOfPoints() {
			p, _ := node.WorldPosition(i)
			sum = sum.Add(p)
			count++
		}
	}
	if count == 0 {
		return sum
	}
	return sum.Mul(1 / float64(count))
}

func lockMark(locked bool) string {
	if locked {
		return "  [locked]"
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
