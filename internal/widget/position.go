package widget

import "github.com/philipparndt/fiducials/pkg/geometry"

// Glyph describes the marker geometry of a position handle. Sphere glyphs are
// drawn as a sphere of Radius with Resolution segments; the others are
// flat shapes named after their glyph type.
type Glyph struct {
	Name       string
	Sphere     bool
	Radius     float64
	Resolution int
}

// Label is the text drawn next to a position handle
type Label struct {
	Text    string
	Visible bool
	Scale   float64
	Color   Color
	Opacity float64
}

// PositionHandle is a draggable glyph with a label
type PositionHandle struct {
	base
	set         *SeedSet
	position    geometry.Vector3
	orientation geometry.Quaternion
	glyph       Glyph
	label       Label
}

var _ Handle = (*PositionHandle)(nil)

func (h *PositionHandle) Kind() Kind { return KindPosition }

func (h *PositionHandle) WorldPosition() geometry.Vector3 { return h.position }

func (h *PositionHandle) SetWorldPosition(p geometry.Vector3) bool {
	return setField(&h.base, &h.position, p)
}

// Orientation of a position handle is carried along but not drawn
func (h *PositionHandle) Orientation() geometry.Quaternion { return h.orientation }

func (h *PositionHandle) SetOrientation(q geometry.Quaternion) bool {
	return setField(&h.base, &h.orientation, q.Normalize())
}

// Glyph returns the current glyph
func (h *PositionHandle) Glyph() Glyph { return h.glyph }

// SetGlyph replaces the glyph geometry
func (h *PositionHandle) SetGlyph(g Glyph) bool {
	return setField(&h.base, &h.glyph, g)
}

// Label returns the label state
func (h *PositionHandle) Label() Label { return h.label }

// SetLabelText changes the label text
func (h *PositionHandle) SetLabelText(text string) bool {
	return setField(&h.base, &h.label.Text, text)
}

// SetLabelVisible shows or hides the label
func (h *PositionHandle) SetLabelVisible(visible bool) bool {
	return setField(&h.base, &h.label.Visible, visible)
}

// SetLabelStyle changes the label scale, color and opacity
func (h *PositionHandle) SetLabelStyle(scale float64, color Color, opacity float64) bool {
	changed := setField(&h.base, &h.label.Scale, scale)
	changed = setField(&h.base, &h.label.Color, color) || changed
	return setField(&h.base, &h.label.Opacity, opacity) || changed
}

func (h *PositionHandle) interactive() bool {
	if !h.base.interactive() {
		return false
	}
	return h.set == nil || (h.set.enabled && h.set.processEvents)
}

func (h *PositionHandle) emit(kind EventKind) {
	ev := Event{Kind: kind, Handle: h, Index: h.index}
	h.events.emit(ev)
	if h.set != nil {
		h.set.events.emit(ev)
	}
}

// Press starts an interaction. It returns false when the handle ignores input.
func (h *PositionHandle) Press() bool {
	if !h.interactive() || h.state != StateIdle {
		return false
	}
	h.state = StateActive
	h.emit(StartInteraction)
	return true
}

// DragTo moves a pressed handle and emits Interaction
func (h *PositionHandle) DragTo(p geometry.Vector3) bool {
	if h.state == StateIdle {
		return false
	}
	h.state = StateMoving
	h.SetWorldPosition(p)
	h.emit(Interaction)
	return true
}

// Release ends the interaction. EndInteraction observers still see the
// handle in its final state (StateMoving after a drag).
func (h *PositionHandle) Release() bool {
	if h.state == StateIdle {
		return false
	}
	h.emit(EndInteraction)
	h.state = StateIdle
	return true
}
