// Package widget holds the interactive handles drawn in a 3D view: position
// handles (a glyph plus a label, grouped in a SeedSet) and orientation
// handles (a sphere with a pointer). Handles keep their own state and emit
// interaction events; a renderer reads that state to draw them.
package widget

import (
	"slices"

	"github.com/philipparndt/fiducials/pkg/geometry"
)

// Kind distinguishes the two handle variants
type Kind int

const (
	KindPosition Kind = iota
	KindOrientation
)

func (k Kind) String() string {
	if k == KindOrientation {
		return "orientation"
	}
	return "position"
}

// State is the interaction state of a single handle
type State int

const (
	StateIdle   State = iota
	StateActive       // pressed, not moved yet
	StateMoving
)

// EventKind identifies a handle interaction event
type EventKind int

const (
	StartInteraction EventKind = iota
	Interaction
	EndInteraction
)

func (k EventKind) String() string {
	switch k {
	case StartInteraction:
		return "StartInteraction"
	case Interaction:
		return "Interaction"
	}
	return "EndInteraction"
}

// Event is emitted by a handle while the user interacts with it
type Event struct {
	Kind   EventKind
	Handle Handle
	Index  int
}

// Color is an RGB triple in [0, 1]
type Color [3]float64

// Style is the material applied to a handle
type Style struct {
	Color    Color
	Opacity  float64
	Ambient  float64
	Diffuse  float64
	Specular float64
	Scale    float64
}

// Handle is the behavior shared by position and orientation handles
type Handle interface {
	Kind() Kind
	Index() int

	WorldPosition() geometry.Vector3
	SetWorldPosition(p geometry.Vector3) bool
	Orientation() geometry.Quaternion
	SetOrientation(q geometry.Quaternion) bool

	Visible() bool
	SetVisible(visible bool) bool
	Enabled() bool
	SetEnabled(enabled bool) bool
	Locked() bool
	SetLocked(locked bool) bool
	Style() Style
	SetStyle(s Style) bool

	State() State
	Revision() uint64
	OnEvent(fn func(Event)) CallbackHandle
}

type callbackEntry struct {
	id uint32
	fn func(Event)
}

type callbacks struct {
	nextID  uint32
	entries []callbackEntry
}

// CallbackHandle detaches an event callback
type CallbackHandle struct {
	id  uint32
	reg *callbacks
}

// Remove detaches the callback. Removing twice is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.entries = slices.DeleteFunc(h.reg.entries, func(e callbackEntry) bool {
		return e.id == h.id
	})
}

func (c *callbacks) add(fn func(Event)) CallbackHandle {
	c.nextID++
	c.entries = append(c.entries, callbackEntry{id: c.nextID, fn: fn})
	return CallbackHandle{id: c.nextID, reg: c}
}

func (c *callbacks) emit(ev Event) {
	for _, e := range slices.Clone(c.entries) {
		e.fn(ev)
	}
}

func (c *callbacks) clear() {
	c.entries = nil
}

// base carries the state common to both handle kinds. Every setter reports
// whether it changed anything and bumps the revision when it did.
type base struct {
	index    int
	visible  bool
	enabled  bool
	locked   bool
	style    Style
	state    State
	revision uint64
	events   callbacks
}

func newBase(index int) base {
	return base{
		index:   index,
		visible: true,
		enabled: true,
		style:   Style{Color: Color{1, 1, 1}, Opacity: 1, Diffuse: 1, Scale: 1},
	}
}

func (b *base) touch() { b.revision++ }

func setField[T comparable](b *base, field *T, v T) bool {
	if *field == v {
		return false
	}
	*field = v
	b.touch()
	return true
}

func (b *base) Index() int       { return b.index }
func (b *base) Visible() bool    { return b.visible }
func (b *base) Enabled() bool    { return b.enabled }
func (b *base) Locked() bool     { return b.locked }
func (b *base) Style() Style     { return b.style }
func (b *base) State() State     { return b.state }
func (b *base) Revision() uint64 { return b.revision }

func (b *base) SetVisible(visible bool) bool { return setField(b, &b.visible, visible) }
func (b *base) SetEnabled(enabled bool) bool { return setField(b, &b.enabled, enabled) }
func (b *base) SetLocked(locked bool) bool   { return setField(b, &b.locked, locked) }
func (b *base) SetStyle(s Style) bool        { return setField(b, &b.style, s) }

func (b *base) OnEvent(fn func(Event)) CallbackHandle {
	return b.events.add(fn)
}

// interactive reports whether the handle currently accepts user input
func (b *base) interactive() bool {
	return b.visible && b.enabled && !b.locked
}
