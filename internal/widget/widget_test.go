package widget

import (
	"math"
	"testing"

	"github.com/philipparndt/fiducials/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSetCreatesIndexedHandles(t *testing.T) {
	set := NewSeedSet()
	assert.False(t, set.Enabled())
	assert.True(t, set.ProcessEvents())
	assert.Equal(t, SeedPlacing, set.State())

	a := set.CreateNewHandle()
	b := set.CreateNewHandle()
	assert.Equal(t, 0, a.Index())
	assert.Equal(t, 1, b.Index())
	assert.Equal(t, 2, set.Len())
	assert.Same(t, b, set.Seed(1))
	assert.Nil(t, set.Seed(2))
	assert.Nil(t, set.Seed(-1))
}

func TestSettersReportChangesAndRevision(t *testing.T) {
	h := NewSeedSet().CreateNewHandle()
	rev := h.Revision()

	assert.True(t, h.SetWorldPosition(geometry.NewVector3(1, 2, 3)))
	assert.False(t, h.SetWorldPosition(geometry.NewVector3(1, 2, 3)))
	assert.True(t, h.SetLabelText("F-1"))
	assert.False(t, h.SetLabelStyle(0, Color{}, 0))
	assert.False(t, h.SetVisible(true))
	assert.Equal(t, rev+2, h.Revision())
}

func TestPositionHandleDrag(t *testing.T) {
	set := NewSeedSet()
	set.SetEnabled(true)
	h := set.CreateNewHandle()

	var got []Event
	var statesAtEvent []State
	set.OnEvent(func(ev Event) {
		got = append(got, ev)
		statesAtEvent = append(statesAtEvent, ev.Handle.State())
	})

	require.True(t, h.Press())
	require.True(t, h.DragTo(geometry.NewVector3(4, 5, 6)))
	require.True(t, h.Release())

	require.Len(t, got, 3)
	assert.Equal(t, StartInteraction, got[0].Kind)
	assert.Equal(t, Interaction, got[1].Kind)
	assert.Equal(t, EndInteraction, got[2].Kind)
	assert.Equal(t, []State{StateActive, StateMoving, StateMoving}, statesAtEvent)
	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, geometry.NewVector3(4, 5, 6), h.WorldPosition())
}

func TestLockedHandlesIgnoreInput(t *testing.T) {
	set := NewSeedSet()
	set.SetEnabled(true)
	h := set.CreateNewHandle()

	h.SetLocked(true)
	assert.False(t, h.Press())
	h.SetLocked(false)

	set.SetProcessEvents(false)
	assert.False(t, h.Press())
	set.SetProcessEvents(true)

	set.SetEnabled(false)
	assert.False(t, h.Press())
	set.SetEnabled(true)

	h.SetVisible(false)
	assert.False(t, h.Press())
	h.SetVisible(true)

	assert.True(t, h.Press())
	assert.False(t, h.Press(), "already pressed")
	assert.False(t, NewSeedSet().CreateNewHandle().DragTo(geometry.Vector3{}), "drag without press")
}

func TestSeedSetDestroyDetachesCallbacks(t *testing.T) {
	set := NewSeedSet()
	set.SetEnabled(true)
	h := set.CreateNewHandle()
	calls := 0
	set.OnEvent(func(Event) { calls++ })

	set.Destroy()
	assert.Equal(t, 0, set.Len())
	h.Press()
	assert.Zero(t, calls)
}

func TestCallbackHandleRemove(t *testing.T) {
	h := NewOrientationHandle(0)
	calls := 0
	cb := h.OnEvent(func(Event) { calls++ })
	h.Press()
	cb.Remove()
	cb.Remove()
	h.Release()
	assert.Equal(t, 1, calls)
}

func TestOrientationHandleFollowsRotation(t *testing.T) {
	h := NewOrientationHandle(3)
	assert.Equal(t, KindOrientation, h.Kind())
	assert.Equal(t, 3, h.Index())

	h.SetCenter(geometry.NewVector3(1, 1, 1))
	h.SetOrientation(geometry.QuaternionFromAxisAngle(geometry.AxisX, math.Pi/2))

	p := h.Pointer()
	assert.InDelta(t, 1.0, p.X, 1e-12)
	assert.InDelta(t, 0.0, p.Y, 1e-12)
	assert.InDelta(t, 1.0, p.Z, 1e-12)

	z := h.Orientation().ToMatrix3().Column(2)
	assert.InDelta(t, -1.0, z.Y, 1e-12)
}

func TestOrientationHandleCarriesPointer(t *testing.T) {
	h := NewOrientationHandle(0)
	h.SetWorldPosition(geometry.NewVector3(5, 0, 0))
	assert.Equal(t, geometry.NewVector3(5, 0, 1), h.Pointer())
	assert.Equal(t, geometry.AxisZ, h.Direction())
}

func TestOrientationHandleDrag(t *testing.T) {
	h := NewOrientationHandle(0)
	var kinds []EventKind
	h.OnEvent(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.True(t, h.Press())
	require.True(t, h.DragPointerTo(geometry.NewVector3(1, 0, 0)))
	require.True(t, h.Release())
	assert.Equal(t, []EventKind{StartInteraction, Interaction, EndInteraction}, kinds)

	z := h.Orientation().ToMatrix3().Column(2)
	assert.InDelta(t, 1.0, z.X, 1e-12)

	require.True(t, h.Press())
	require.True(t, h.DragCenterTo(geometry.NewVector3(0, 2, 0)))
	h.Release()
	assert.Equal(t, geometry.NewVector3(1, 2, 0), h.Pointer())

	h.Destroy()
	assert.False(t, h.Press())
}
