package mrml

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/philipparndt/fiducials/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) observe(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func newTestScene(t *testing.T) (*Scene, *FiducialNode, *recorder) {
	t.Helper()
	s := NewScene()
	display := NewDisplayNode(DefaultStyle())
	_, err := s.AddDisplayNode(display)
	require.NoError(t, err)

	n := NewFiducialNode("F")
	n.SetDisplayNodeID(display.ID())
	_, err = s.AddFiducialNode(n)
	require.NoError(t, err)

	rec := &recorder{}
	s.Observe(rec.observe)
	return s, n, rec
}

func TestAddNodesAssignsIDs(t *testing.T) {
	s, n, _ := newTestScene(t)

	assert.Equal(t, NodeID("FiducialNode1"), n.ID())
	assert.Same(t, n, s.FiducialNode("FiducialNode1"))
	assert.NotNil(t, n.DisplayNode())
	assert.Equal(t, NodeID("DisplayNode1"), n.DisplayNodeID())

	_, err := s.AddFiducialNode(n)
	assert.ErrorIs(t, err, ErrNodeInScene)
	_, err = s.AddFiducialNode(nil)
	assert.ErrorIs(t, err, ErrNilNode)
}

func TestAddPointDefaults(t *testing.T) {
	_, n, rec := newTestScene(t)

	i := n.AddPoint(geometry.NewVector3(1, 2, 3))
	j := n.AddLabeledPoint(geometry.NewVector3(4, 5, 6), n.NextLabel())
	require.Equal(t, 0, i)
	require.Equal(t, 1, j)

	p, err := n.Point(0)
	require.NoError(t, err)
	assert.Empty(t, p.Label)
	assert.True(t, p.Visible)
	assert.False(t, p.Selected)
	assert.False(t, p.Locked)
	assert.Equal(t, geometry.IdentityQuaternion(), p.Orientation)
	assert.NotEmpty(t, p.ID)

	q, _ := n.Point(1)
	assert.Equal(t, "F-1", q.Label)
	assert.NotEqual(t, p.ID, q.ID)

	assert.Equal(t, []EventKind{PointAdded, PointAdded}, rec.kinds())
	assert.Equal(t, 1, rec.events[1].Index())
}

func TestRemovePointShiftsIndices(t *testing.T) {
	_, n, rec := newTestScene(t)
	n.AddPoint(geometry.NewVector3(0, 0, 0))
	n.AddPoint(geometry.NewVector3(1, 0, 0))
	n.AddPoint(geometry.NewVector3(0, 1, 0))

	require.NoError(t, n.RemovePoint(1))
	assert.Equal(t, 2, n.NumberOfPoints())

	p, _ := n.WorldPosition(1)
	assert.Equal(t, geometry.NewVector3(0, 1, 0), p)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, PointRemoved, last.Kind)
	assert.Equal(t, 1, last.Index())

	assert.ErrorIs(t, n.RemovePoint(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, n.RemovePoint(-1), ErrIndexOutOfRange)
}

func TestSettersEmitOnlyOnChange(t *testing.T) {
	_, n, rec := newTestScene(t)
	n.AddPoint(geometry.Vector3{})
	rec.events = nil

	require.NoError(t, n.SetLabel(0, "tip"))
	require.NoError(t, n.SetLabel(0, "tip"))
	require.NoError(t, n.SetPointSelected(0, false))
	require.NoError(t, n.SetPointVisible(0, true))
	require.NoError(t, n.SetWorldPosition(0, geometry.Vector3{}))

	assert.Equal(t, []EventKind{PointModified}, rec.kinds())
	assert.ErrorIs(t, n.SetLabel(3, "x"), ErrIndexOutOfRange)
}

func TestBatchedModificationsEmitOnce(t *testing.T) {
	_, n, rec := newTestScene(t)
	n.AddPoint(geometry.Vector3{})
	n.AddPoint(geometry.Vector3{})
	rec.events = nil

	n.BeginModify()
	require.NoError(t, n.SetWorldPosition(0, geometry.NewVector3(1, 0, 0)))
	require.NoError(t, n.SetWorldPosition(1, geometry.NewVector3(2, 0, 0)))
	require.NoError(t, n.SetLabel(0, "a"))
	assert.Empty(t, rec.events)
	n.EndModify()

	require.Len(t, rec.events, 1)
	assert.Equal(t, PointModified, rec.events[0].Kind)
	assert.Equal(t, []int{0, 1}, rec.events[0].Indices)

	// unbalanced EndModify is ignored
	n.EndModify()
	assert.Len(t, rec.events, 1)
}

func TestWorldTransform(t *testing.T) {
	_, n, _ := newTestScene(t)
	n.SetTransform(Transform{
		Rotation:    geometry.QuaternionFromAxisAngle(geometry.AxisZ, math.Pi/2),
		Translation: geometry.NewVector3(10, 0, 0),
	})

	n.AddPoint(geometry.NewVector3(10, 1, 0))
	p, _ := n.Point(0)
	assert.InDelta(t, 1.0, p.Position.X, 1e-12)
	assert.InDelta(t, 0.0, p.Position.Y, 1e-12)

	world, err := n.WorldPosition(0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, world.X, 1e-12)
	assert.InDelta(t, 1.0, world.Y, 1e-12)

	target := geometry.QuaternionFromAxisAngle(geometry.AxisX, 0.3)
	require.NoError(t, n.SetWorldOrientation(0, target))
	got, err := n.WorldOrientation(0)
	require.NoError(t, err)
	assert.True(t, got.EqualUpToSign(target, 1e-12), "world orientation %v, want %v", got, target)
}

func TestRemoveNodeEvents(t *testing.T) {
	s, n, rec := newTestScene(t)
	s.Selection().SetActivePlaceNodeID(n.ID())
	rec.events = nil

	require.NoError(t, s.RemoveNode(n.ID()))
	assert.Equal(t, []EventKind{NodeAboutToBeRemoved, ActivePlaceNodeChanged, NodeRemoved}, rec.kinds())
	assert.Nil(t, s.FiducialNode(n.ID()))
	assert.Empty(t, s.Selection().ActivePlaceNodeID())
	assert.ErrorIs(t, s.RemoveNode("nope"), ErrNodeNotFound)
}

func TestRemoveDisplayNodeTouchesReferencingNodes(t *testing.T) {
	s, n, rec := newTestScene(t)
	rec.events = nil

	require.NoError(t, s.RemoveNode(n.DisplayNodeID()))
	assert.Equal(t, []EventKind{NodeAboutToBeRemoved, NodeRemoved, NodeModified}, rec.kinds())
	assert.Nil(t, n.DisplayNode())
}

func TestSubscriptionRemove(t *testing.T) {
	s, n, rec := newTestScene(t)
	calls := 0
	sub := s.Observe(func(Event) { calls++ })
	n.AddPoint(geometry.Vector3{})
	sub.Remove()
	sub.Remove()
	n.AddPoint(geometry.Vector3{})

	assert.Equal(t, 1, calls)
	assert.Len(t, rec.events, 2)
}

func TestInteractionNode(t *testing.T) {
	s, _, rec := newTestScene(t)
	in := s.Interaction()
	assert.Equal(t, ViewTransform, in.Mode())

	in.SetMode(Place)
	in.SetMode(Place)
	in.SetPlaceModePersistent(true)
	assert.True(t, in.PlacingPersistently())
	assert.Equal(t, []EventKind{InteractionModeChanged, InteractionModeChanged}, rec.kinds())
}

func TestSaveLoadScene(t *testing.T) {
	s, n, _ := newTestScene(t)
	n.AddPoint(geometry.NewVector3(1, 2, 3))
	n.AddPoint(geometry.NewVector3(4, 5, 6))
	require.NoError(t, n.SetOrientation(1, geometry.QuaternionFromAxisAngle(geometry.AxisX, math.Pi/2)))
	require.NoError(t, n.SetPointLocked(0, true))
	require.NoError(t, n.SetAssociatedNodeID(0, "Model1"))
	n.SetMode(OrientationMode)
	n.DisplayNode().SetGlyph(Sphere3D)
	s.Interaction().SetPlaceModePersistent(true)
	s.Selection().SetActivePlaceNodeID(n.ID())
	original, _ := n.Point(1)

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded := NewScene()
	rec := &recorder{}
	loaded.Observe(rec.observe)
	require.NoError(t, loaded.Load(&buf))

	ln := loaded.FiducialNode(n.ID())
	require.NotNil(t, ln)
	assert.Equal(t, 2, ln.NumberOfPoints())
	assert.Equal(t, OrientationMode, ln.Mode())
	assert.Equal(t, Sphere3D, ln.DisplayNode().Style().Glyph)
	assert.True(t, loaded.Interaction().PlaceModePersistent())
	assert.Equal(t, n.ID(), loaded.Selection().ActivePlaceNodeID())

	p, _ := ln.Point(1)
	assert.Equal(t, original.ID, p.ID)
	assert.True(t, p.Orientation.EqualUpToSign(original.Orientation, 1e-12))
	first, _ := ln.Point(0)
	assert.True(t, first.Locked)
	assert.Equal(t, "Model1", first.AssociatedNodeID)

	// new IDs do not collide with loaded ones
	id, err := loaded.AddFiducialNode(NewFiducialNode("G"))
	require.NoError(t, err)
	assert.Equal(t, NodeID("FiducialNode2"), id)
	assert.Contains(t, rec.kinds(), NodeAdded)

	// labels continue after the loaded points
	assert.Equal(t, "F-3", ln.NextLabel())
}

func TestLoadAppliesDefaults(t *testing.T) {
	const doc = `
version: 1
interaction:
  mode: view
display_nodes:
  - id: DisplayNode4
    glyph: sphere3d
fiducials:
  - id: FiducialNode9
    name: L
    display: DisplayNode4
    mode: position
    points:
      - label: tip
        position: [1, 2, 3]
`
	s := NewScene()
	require.NoError(t, s.Load(strings.NewReader(doc)))

	n := s.FiducialNode("FiducialNode9")
	require.NotNil(t, n)
	p, err := n.Point(0)
	require.NoError(t, err)
	assert.True(t, p.Visible)
	assert.Equal(t, geometry.IdentityQuaternion(), p.Orientation)

	style := n.DisplayNode().Style()
	assert.Equal(t, Sphere3D, style.Glyph)
	assert.True(t, style.Visibility)
	assert.Equal(t, DefaultStyle().Color, style.Color)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"version":   "version: 7\n",
		"glyph":     "version: 1\ndisplay_nodes:\n  - id: D\n    glyph: teapot\n",
		"duplicate": "version: 1\nfiducials:\n  - id: A\n    mode: position\n  - id: A\n    mode: position\n",
		"mode":      "version: 1\nfiducials:\n  - id: A\n    mode: sideways\n",
		"opacity":   "version: 1\ndisplay_nodes:\n  - id: D\n    opacity: 3\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			s, n, _ := newTestScene(t)
			assert.Error(t, s.Load(strings.NewReader(doc)))
			// a rejected document leaves the scene untouched
			assert.Same(t, n, s.FiducialNode(n.ID()))
		})
	}
}

func TestUndoRedo(t *testing.T) {
	s, n, _ := newTestScene(t)
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)

	n.AddPoint(geometry.NewVector3(1, 0, 0))
	require.NoError(t, s.SaveStateForUndo(n))
	require.NoError(t, n.SetWorldPosition(0, geometry.NewVector3(5, 0, 0)))

	require.NoError(t, s.Undo())
	restored := s.FiducialNode(n.ID())
	require.NotNil(t, restored)
	p, _ := restored.WorldPosition(0)
	assert.Equal(t, geometry.NewVector3(1, 0, 0), p)
	assert.True(t, s.CanRedo())

	require.NoError(t, s.Redo())
	p, _ = s.FiducialNode(n.ID()).WorldPosition(0)
	assert.Equal(t, geometry.NewVector3(5, 0, 0), p)
	assert.ErrorIs(t, s.Redo(), ErrNothingToRedo)
}

func TestUndoCapacity(t *testing.T) {
	s := NewScene(WithUndoCapacity(2))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveStateForUndo(nil))
	}
	assert.Len(t, s.history.undo, 2)
}

func TestGlyphTypeText(t *testing.T) {
	g, err := ParseGlyphType("StarBurst2D")
	require.NoError(t, err)
	assert.Equal(t, StarBurst2D, g)
	assert.False(t, g.Is3D())
	assert.True(t, Diamond3D.Is3D())

	_, err = ParseGlyphType("Teapot3D")
	assert.Error(t, err)
	_, err = GlyphType(99).MarshalText()
	assert.Error(t, err)
}
