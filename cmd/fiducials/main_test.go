package main

import (
	"path/filepath"
	"testing"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t     *testing.T
	scene string
	cfg   string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{
		t:     t,
		scene: filepath.Join(dir, "scene.yaml"),
		cfg:   filepath.Join(dir, "fiducials.yaml"),
	}
}

func (c *cli) run(args ...string) error {
	c.t.Helper()
	placeNode, placeLabel, placeAssociated, placePersistent, unlock = "", "", "", false, false
	rootCmd.SetArgs(append([]string{"--scene", c.scene, "--config", c.cfg}, args...))
	return rootCmd.Execute()
}

func (c *cli) load() *mrml.Scene {
	c.t.Helper()
	scene := mrml.NewScene()
	require.NoError(c.t, scene.LoadFile(c.scene))
	return scene
}

func (c *cli) only() *mrml.FiducialNode {
	c.t.Helper()
	nodes := c.load().FiducialNodes()
	require.Len(c.t, nodes, 1)
	return nodes[0]
}

func TestPlaceCreatesPointSet(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, c.run("place", "1", "2", "3"))
	require.NoError(t, c.run("place", "4", "5", "6", "--label", "tip"))

	scene := c.load()
	nodes := scene.FiducialNodes()
	require.Len(t, nodes, 1)
	node := nodes[0]
	assert.Equal(t, "F", node.Name())
	assert.Equal(t, node.ID(), scene.Selection().ActivePlaceNodeID())
	assert.Equal(t, mrml.ViewTransform, scene.Interaction().Mode())
	require.Equal(t, 2, node.NumberOfPoints())

	first, _ := node.Point(0)
	second, _ := node.Point(1)
	assert.Equal(t, "F-1", first.Label)
	assert.Equal(t, "tip", second.Label)
	world, _ := node.WorldPosition(1)
	assert.Equal(t, geometry.NewVector3(4, 5, 6), world)
	assert.NotNil(t, node.DisplayNode())
}

func TestPlaceRejectsBadInput(t *testing.T) {
	c := newCLI(t)
	assert.Error(t, c.run("place", "1", "x", "3"))
	assert.Error(t, c.run("place", "1", "2", "3", "--node", "missing"))
	assert.Error(t, c.run("place", "1", "2"))
}

func TestMoveAndOrientThroughHandles(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, c.run("place", "0", "0", "0"))
	require.NoError(t, c.run("place", "1", "0", "0"))

	require.NoError(t, c.run("move", "F", "0", "7", "8", "9"))
	world, _ := c.only().WorldPosition(0)
	assert.Equal(t, geometry.NewVector3(7, 8, 9), world)

	require.NoError(t, c.run("orient", "F", "1", "2", "0", "0"))
	node := c.only()
	assert.Equal(t, mrml.PositionMode, node.Mode())
	q, _ := node.WorldOrientation(1)
	z := q.ToMatrix3().Column(2)
	assert.InDelta(t, 1.0, z.X, 1e-9)
	assert.InDelta(t, 0.0, z.Y, 1e-9)
	assert.InDelta(t, 0.0, z.Z, 1e-9)
	world, _ = node.WorldPosition(1)
	assert.Equal(t, geometry.NewVector3(1, 0, 0), world)

	assert.Error(t, c.run("orient", "F", "1", "0", "0", "0"))
	assert.ErrorIs(t, c.run("move", "F", "5", "0", "0", "0"), mrml.ErrIndexOutOfRange)
}

func TestLockedPointsRefuseMoves(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, c.run("place", "0", "0", "0"))

	require.NoError(t, c.run("lock", "F", "0"))
	p, _ := c.only().Point(0)
	assert.True(t, p.Locked)
	assert.ErrorIs(t, c.run("move", "F", "0", "1", "1", "1"), errHandleInactive)

	require.NoError(t, c.run("lock", "F", "0", "--off"))
	require.NoError(t, c.run("lock", "F"))
	assert.True(t, c.only().Locked())
	assert.ErrorIs(t, c.run("move", "F", "0", "1", "1", "1"), errHandleInactive)

	require.NoError(t, c.run("lock", "F", "--off"))
	require.NoError(t, c.run("move", "F", "0", "1", "1", "1"))
}

func TestModeHidesPositionHandles(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, c.run("place", "0", "0", "0"))
	require.NoError(t, c.run("mode", "F", "orientation"))
	assert.Equal(t, mrml.OrientationMode, c.only().Mode())
	assert.ErrorIs(t, c.run("move", "F", "0", "1", "1", "1"), errHandleInactive)
	assert.Error(t, c.run("mode", "F", "sideways"))
}

func TestRemoveAndLabel(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, c.run("place", "0", "0", "0"))
	require.NoError(t, c.run("place", "1", "1", "1"))

	require.NoError(t, c.run("label", "F", "1", "apex"))
	require.NoError(t, c.run("remove", "F", "0"))

	node := c.only()
	require.Equal(t, 1, node.NumberOfPoints())
	p, _ := node.Point(0)
	assert.Equal(t, "apex", p.Label)
}

func TestListWithoutScene(t *testing.T) {
	c := newCLI(t)
	assert.NoError(t, c.run("list"))
}
