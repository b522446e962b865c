package markups

import (
	"testing"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmptyManager(t *testing.T, opts ...Option) (*mrml.Scene, *Manager) {
	t.Helper()
	scene := mrml.NewScene(mrml.WithLogger(quiet))
	m := New(scene, planeCoords{}, append([]Option{WithLogger(quiet)}, opts...)...)
	t.Cleanup(m.Close)
	return scene, m
}

func TestClickCreatesNodeWhenNoneIsActive(t *testing.T) {
	scene, m := newEmptyManager(t)
	scene.Interaction().SetMode(mrml.Place)

	pl, err := m.OnClick(10, 20, "Model1")
	require.NoError(t, err)
	assert.True(t, pl.NewNode)
	assert.Equal(t, 0, pl.Index)
	assertNear(t, geometry.NewVector3(10, 20, 0), pl.World)

	node := scene.FiducialNode(pl.Node)
	require.NotNil(t, node)
	assert.Equal(t, "F", node.Name())
	assert.Equal(t, pl.Node, scene.Selection().ActivePlaceNodeID())
	assert.Equal(t, mrml.ViewTransform, scene.Interaction().Mode(), "one-shot placement returns to view mode")

	p, err := node.Point(0)
	require.NoError(t, err)
	assert.Equal(t, "F-1", p.Label)
	assert.Equal(t, "Model1", p.AssociatedNodeID)

	display := node.DisplayNode()
	require.NotNil(t, display)
	assert.Equal(t, mrml.DefaultStyle(), display.Style())

	ws, ok := m.Widgets(pl.Node)
	require.True(t, ok)
	require.Equal(t, 1, ws.Len())
	assertNear(t, geometry.NewVector3(10, 20, 0), ws.Position(0).WorldPosition())
	assert.Equal(t, "F-1", ws.Position(0).Label().Text)
	assert.False(t, ws.Position(0).Locked())
}

func TestUndoFirstPlacementRemovesNode(t *testing.T) {
	scene, m := newEmptyManager(t)
	scene.Interaction().SetMode(mrml.Place)
	pl, err := m.OnClick(1, 1, "")
	require.NoError(t, err)
	require.True(t, scene.CanUndo())

	require.NoError(t, scene.Undo())
	assert.Nil(t, scene.FiducialNode(pl.Node))
	_, ok := m.Widgets(pl.Node)
	assert.False(t, ok)

	require.NoError(t, scene.Redo())
	node := scene.FiducialNode(pl.Node)
	require.NotNil(t, node)
	ws, ok := m.Widgets(pl.Node)
	require.True(t, ok)
	assert.Equal(t, node.NumberOfPoints(), ws.Len())
}

func TestPersistentPlacementKeepsModeAndLocks(t *testing.T) {
	scene, m := newEmptyManager(t)
	interaction := scene.Interaction()
	interaction.SetPlaceModePersistent(true)
	interaction.SetMode(mrml.Place)

	first, err := m.OnClick(0, 0, "")
	require.NoError(t, err)
	second, err := m.OnClick(5, 0, "")
	require.NoError(t, err)

	assert.Equal(t, first.Node, second.Node)
	assert.False(t, second.NewNode)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, mrml.Place, interaction.Mode())

	node := scene.FiducialNode(first.Node)
	p, _ := node.Point(1)
	assert.Equal(t, "F-2", p.Label)

	ws, _ := m.Widgets(first.Node)
	require.Equal(t, 2, ws.Len())
	assert.True(t, ws.Position(0).Locked())
	assert.True(t, ws.Position(1).Locked())
	assert.True(t, ws.Orientation(1).Locked())

	interaction.SetMode(mrml.ViewTransform)
	assert.False(t, ws.Position(0).Locked())
	assert.False(t, ws.Position(1).Locked())
}

func TestPlacementOptions(t *testing.T) {
	style := mrml.DefaultStyle()
	style.Glyph = mrml.Sphere3D
	scene, m := newEmptyManager(t, WithNodeName("L"), WithDefaultStyle(style))
	scene.Interaction().SetMode(mrml.Place)

	pl, err := m.OnClick(0, 0, "")
	require.NoError(t, err)
	node := scene.FiducialNode(pl.Node)
	assert.Equal(t, "L", node.Name())
	p, _ := node.Point(0)
	assert.Equal(t, "L-1", p.Label)

	ws, _ := m.Widgets(pl.Node)
	assert.True(t, ws.Position(0).Glyph().Sphere)
}

func TestKeyPressPlacesOnlyInPlaceMode(t *testing.T) {
	scene, m := newEmptyManager(t)

	_, err := m.OnKeyPress(PlaceKey, 1, 2)
	assert.ErrorIs(t, err, ErrNotPlaceMode)
	assert.Empty(t, scene.FiducialNodes())

	pl, err := m.OnKeyPress("x", 1, 2)
	require.NoError(t, err)
	assert.Empty(t, pl.Node)

	scene.Interaction().SetMode(mrml.Place)
	pl, err = m.OnKeyPress(PlaceKey, 1, 2)
	require.NoError(t, err)
	assert.True(t, pl.NewNode)
	assertNear(t, geometry.NewVector3(1, 2, 0), pl.World)
}

func TestClickWithoutAdapter(t *testing.T) {
	scene := mrml.NewScene(mrml.WithLogger(quiet))
	m := New(scene, nil, WithLogger(quiet))
	defer m.Close()
	_, err := m.OnClick(0, 0, "")
	assert.Error(t, err)
}
