package widget

import "github.com/philipparndt/fiducials/pkg/geometry"

func identity() geometry.Quaternion { return geometry.IdentityQuaternion() }

// OrientationHandle is a sphere centered on a point with a pointer marking
// the local Z axis. Center and pointer are independent positions; the
// orientation is always derived from the two raw positions.
type OrientationHandle struct {
	base
	center  geometry.Vector3
	pointer geometry.Vector3
}

var _ Handle = (*OrientationHandle)(nil)

// NewOrientationHandle creates a handle at the origin pointing along +Z
func NewOrientationHandle(index int) *OrientationHandle {
	return &OrientationHandle{
		base:    newBase(index),
		pointer: geometry.AxisZ,
	}
}

func (h *OrientationHandle) Kind() Kind { return KindOrientation }

// WorldPosition is the sphere center
func (h *OrientationHandle) WorldPosition() geometry.Vector3 { return h.center }

// SetWorldPosition moves the center and carries the pointer along
func (h *OrientationHandle) SetWorldPosition(p geometry.Vector3) bool {
	offset := h.pointer.Sub(h.center)
	changed := setField(&h.base, &h.center, p)
	return setField(&h.base, &h.pointer, p.Add(offset)) || changed
}

// Center returns the sphere center
func (h *OrientationHandle) Center() geometry.Vector3 { return h.center }

// SetCenter moves only the center
func (h *OrientationHandle) SetCenter(p geometry.Vector3) bool {
	return setField(&h.base, &h.center, p)
}

// Pointer returns the pointer (handle) position
func (h *OrientationHandle) Pointer() geometry.Vector3 { return h.pointer }

// SetPointer moves only the pointer
func (h *OrientationHandle) SetPointer(p geometry.Vector3) bool {
	return setField(&h.base, &h.pointer, p)
}

// Direction returns pointer - center
func (h *OrientationHandle) Direction() geometry.Vector3 {
	return h.pointer.Sub(h.center)
}

// Orientation returns a rotation whose local Z axis points from the center
// to the pointer
func (h *OrientationHandle) Orientation() geometry.Quaternion {
	return geometry.RotationFromDirection(h.Direction())
}

// SetOrientation places the pointer one unit from the center along the
// rotated Z axis
func (h *OrientationHandle) SetOrientation(q geometry.Quaternion) bool {
	return h.SetPointer(h.center.Add(q.ToMatrix3().Column(2)))
}

func (h *OrientationHandle) emit(kind EventKind) {
	h.events.emit(Event{Kind: kind, Handle: h, Index: h.index})
}

// Press starts an interaction. It returns false when the handle ignores input.
func (h *OrientationHandle) Press() bool {
	if !h.interactive() || h.state != StateIdle {
		return false
	}
	h.state = StateActive
	h.emit(StartInteraction)
	return true
}

// DragPointerTo moves the pointer of a pressed handle
func (h *OrientationHandle) DragPointerTo(p geometry.Vector3) bool {
	if h.state == StateIdle {
		return false
	}
	h.state = StateMoving
	h.SetPointer(p)
	h.emit(Interaction)
	return true
}

// DragCenterTo translates a pressed handle
func (h *OrientationHandle) DragCenterTo(p geometry.Vector3) bool {
	if h.state == StateIdle {
		return false
	}
	h.state = StateMoving
	h.SetWorldPosition(p)
	h.emit(Interaction)
	return true
}

// Release ends the interaction
func (h *OrientationHandle) Release() bool {
	if h.state == StateIdle {
		return false
	}
	h.emit(EndInteraction)
	h.state = StateIdle
	return true
}

// Destroy detaches every callback
func (h *OrientationHandle) Destroy() {
	h.events.clear()
	h.enabled = false
}
