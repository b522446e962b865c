package viewer

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// Marker is one point drawn by a MarkerView. Orientation markers carry a
// pointer drawn as a line from Position.
type Marker struct {
	Position   geometry.Vector3
	Pointer    geometry.Vector3
	HasPointer bool
	Label      string
	Color      color.Color
	Selected   bool
}

// MarkerView draws markers through a Camera. Dragging orbits the camera,
// scrolling zooms and taps are reported in display coordinates.
type MarkerView struct {
	widget.BaseWidget
	camera     *Camera
	markers    func() []Marker
	objects    []fyne.CanvasObject
	dragStart  *fyne.Position
	isDragging bool
	onTap      func(x, y float64, nearest int)
}

// pickRadius is the display distance within which a tap hits a marker
const pickRadius = 12.0

// NewMarkerView creates a view over the markers returned by source
func NewMarkerView(camera *Camera, source func() []Marker) *MarkerView {
	v := &MarkerView{camera: camera, markers: source}
	v.ExtendBaseWidget(v)
	return v
}

// Camera returns the camera used for projection
func (v *MarkerView) Camera() *Camera { return v.camera }

// SetOnTap sets the tap callback. nearest is the index of the marker under
// the tap, or -1.
func (v *MarkerView) SetOnTap(fn func(x, y float64, nearest int)) {
	v.onTap = fn
}

// Render rebuilds the canvas objects from the current markers
func (v *MarkerView) Render(width, height float64) {
	v.camera.Resize(width, height)
	v.objects = v.objects[:0]

	for _, m := range v.markers() {
		x, y, depth := v.camera.Project(m.Position)
		if depth <= 0 {
			continue
		}
		if m.HasPointer {
			px, py, _ := v.camera.Project(m.Pointer)
			line := canvas.NewLine(m.Color)
			line.StrokeWidth = 2
			line.Position1 = fyne.NewPos(float32(x), float32(y))
			line.Position2 = fyne.NewPos(float32(px), float32(py))
			v.objects = append(v.objects, line)
		}

		marker := canvas.NewCircle(m.Color)
		if m.Selected {
			marker.StrokeColor = color.White
			marker.StrokeWidth = 2
		}
		size := float32(10)
		marker.Resize(fyne.NewSize(size, size))
		marker.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
		v.objects = append(v.objects, marker)

		if m.Label != "" {
			text := canvas.NewText(m.Label, m.Color)
			text.TextSize = 12
			text.Move(fyne.NewPos(float32(x)+size, float32(y)-size))
			v.objects = append(v.objects, text)
		}
	}
	v.Refresh()
}

// Dragged orbits the camera
func (v *MarkerView) Dragged(event *fyne.DragEvent) {
	if v.dragStart != nil {
		deltaX := event.Position.X - v.dragStart.X
		deltaY := event.Position.Y - v.dragStart.Y
		v.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
		v.Render(v.camera.Width, v.camera.Height)
	}
	pos := event.Position
	v.dragStart = &pos
	v.isDragging = true
}

// DragEnd ends an orbit
func (v *MarkerView) DragEnd() {
	v.dragStart = nil
	v.isDragging = false
}

// Tapped reports the tap position and the marker under it
func (v *MarkerView) Tapped(event *fyne.PointEvent) {
	if v.isDragging || v.onTap == nil {
		return
	}
	x, y := float64(event.Position.X), float64(event.Position.Y)
	v.onTap(x, y, NearestMarker(v.camera, v.markers(), x, y, pickRadius))
}

// Scrolled zooms the camera
func (v *MarkerView) Scrolled(event *fyne.ScrollEvent) {
	v.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	v.Render(v.camera.Width, v.camera.Height)
}

// NearestMarker returns the index of the marker closest to (x, y) within
// radius display units, or -1
func NearestMarker(camera *Camera, markers []Marker, x, y, radius float64) int {
	nearest := -1
	minDist := radius
	for i, m := range markers {
		mx, my, depth := camera.Project(m.Position)
		if depth <= 0 {
			continue
		}
		if dist := math.Hypot(mx-x, my-y); dist <= minDist {
			minDist = dist
			nearest = i
		}
	}
	return nearest
}

// CreateRenderer creates the renderer for the widget
func (v *MarkerView) CreateRenderer() fyne.WidgetRenderer {
	return &markerViewRenderer{view: v}
}

type markerViewRenderer struct {
	view *MarkerView
}

func (r *markerViewRenderer) Layout(size fyne.Size) {
	r.view.Render(float64(size.Width), float64(size.Height))
}

func (r *markerViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *markerViewRenderer) Refresh() {
	canvas.Refresh(r.view)
}

func (r *markerViewRenderer) Objects() []fyne.CanvasObject {
	return r.view.objects
}

func (r *markerViewRenderer) Destroy() {}
