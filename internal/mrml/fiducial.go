package mrml

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// ErrIndexOutOfRange is returned for point indices outside [0, count)
var ErrIndexOutOfRange = errors.New("point index out of range")

// FiducialMode selects which handle kind a point-set shows
type FiducialMode int

const (
	PositionMode FiducialMode = iota
	OrientationMode
)

func (m FiducialMode) String() string {
	if m == OrientationMode {
		return "orientation"
	}
	return "position"
}

// ParseFiducialMode parses "position" or "orientation"
func ParseFiducialMode(s string) (FiducialMode, error) {
	switch s {
	case "position", "":
		return PositionMode, nil
	case "orientation":
		return OrientationMode, nil
	}
	return PositionMode, fmt.Errorf("unknown fiducial mode %q", s)
}

// Point is one fiducial. Position and Orientation are in the node's local frame.
type Point struct {
	ID               string
	Label            string
	Position         geometry.Vector3
	Orientation      geometry.Quaternion
	Visible          bool
	Selected         bool
	Locked           bool
	AssociatedNodeID string
}

// Transform is a rigid parent transform from node-local to world coordinates
type Transform struct {
	Rotation    geometry.Quaternion
	Translation geometry.Vector3
}

// IdentityTransform leaves coordinates unchanged
func IdentityTransform() Transform {
	return Transform{Rotation: geometry.IdentityQuaternion()}
}

// Apply maps a local point to world
func (t Transform) Apply(p geometry.Vector3) geometry.Vector3 {
	return t.Rotation.Rotate(p).Add(t.Translation)
}

// Invert maps a world point to local
func (t Transform) Invert(p geometry.Vector3) geometry.Vector3 {
	return t.Rotation.Conjugate().Rotate(p.Sub(t.Translation))
}

// FiducialNode is an ordered list of labeled points. The index of a point is
// its identity within the node.
type FiducialNode struct {
	id            NodeID
	name          string
	scene         *Scene
	points        []Point
	locked        bool
	mode          FiducialMode
	displayNodeID NodeID
	transform     Transform
	labelCounter  int

	batchDepth int
	pending    []int
}

// NewFiducialNode creates an empty node named name
func NewFiducialNode(name string) *FiducialNode {
	return &FiducialNode{name: name, transform: IdentityTransform()}
}

// ID returns the scene-assigned ID, empty until the node is added to a scene
func (n *FiducialNode) ID() NodeID { return n.id }

// Name returns the node name, used as the label prefix
func (n *FiducialNode) Name() string { return n.name }

// Scene returns the owning scene or nil
func (n *FiducialNode) Scene() *Scene { return n.scene }

// NumberOfPoints returns the point count
func (n *FiducialNode) NumberOfPoints() int { return len(n.points) }

// Locked reports the node-level lock
func (n *FiducialNode) Locked() bool { return n.locked }

// SetLocked changes the node-level lock
func (n *FiducialNode) SetLocked(locked bool) {
	if n.locked == locked {
		return
	}
	n.locked = locked
	n.modified()
}

// Mode returns the current display mode
func (n *FiducialNode) Mode() FiducialMode { return n.mode }

// SetMode switches between position and orientation handles
func (n *FiducialNode) SetMode(mode FiducialMode) {
	if n.mode == mode {
		return
	}
	n.mode = mode
	n.modified()
}

// Transform returns the parent transform
func (n *FiducialNode) Transform() Transform { return n.transform }

// SetTransform replaces the parent transform; world positions of every point move
func (n *FiducialNode) SetTransform(t Transform) {
	if n.transform == t {
		return
	}
	n.transform = t
	n.modified()
}

// DisplayNodeID returns the referenced display node ID
func (n *FiducialNode) DisplayNodeID() NodeID { return n.displayNodeID }

// SetDisplayNodeID references a display node
func (n *FiducialNode) SetDisplayNodeID(id NodeID) {
	if n.displayNodeID == id {
		return
	}
	n.displayNodeID = id
	n.modified()
}

// DisplayNode resolves the referenced display node, or nil when it is missing
func (n *FiducialNode) DisplayNode() *DisplayNode {
	if n.scene == nil || n.displayNodeID == "" {
		return nil
	}
	return n.scene.DisplayNode(n.displayNodeID)
}

// AddPoint appends an unlabeled point at a world position and returns its
// index. The point is visible, unselected, unlocked and identity-oriented.
func (n *FiducialNode) AddPoint(world geometry.Vector3) int {
	return n.AddLabeledPoint(world, "")
}

// AddLabeledPoint appends a point with the given label
func (n *FiducialNode) AddLabeledPoint(world geometry.Vector3, label string) int {
	n.points = append(n.points, Point{
		ID:          uuid.NewString(),
		Label:       label,
		Position:    n.transform.Invert(world),
		Orientation: geometry.IdentityQuaternion(),
		Visible:     true,
	})
	index := len(n.points) - 1
	if n.scene != nil {
		n.scene.emit(Event{Kind: PointAdded, Node: n.id, Indices: []int{index}})
	}
	return index
}

// NextLabel returns the next "<name>-<n>" label and advances the counter
func (n *FiducialNode) NextLabel() string {
	n.labelCounter++
	return fmt.Sprintf("%s-%d", n.name, n.labelCounter)
}

// RemovePoint deletes point i; points above it shift down by one
func (n *FiducialNode) RemovePoint(i int) error {
	if err := n.check(i); err != nil {
		return err
	}
	n.points = slices.Delete(n.points, i, i+1)
	if n.scene != nil {
		n.scene.emit(Event{Kind: PointRemoved, Node: n.id, Indices: []int{i}})
	}
	return nil
}

// RemoveAllPoints deletes every point
func (n *FiducialNode) RemoveAllPoints() {
	for len(n.points) > 0 {
		_ = n.RemovePoint(len(n.points) - 1)
	}
}

// Point returns a copy of point i
func (n *FiducialNode) Point(i int) (Point, error) {
	if err := n.check(i); err != nil {
		return Point{}, err
	}
	return n.points[i], nil
}

// WorldPosition returns point i in world coordinates
func (n *FiducialNode) WorldPosition(i int) (geometry.Vector3, error) {
	if err := n.check(i); err != nil {
		return geometry.Vector3{}, err
	}
	return n.transform.Apply(n.points[i].Position), nil
}

// SetWorldPosition moves point i to a world position
func (n *FiducialNode) SetWorldPosition(i int, world geometry.Vector3) error {
	if err := n.check(i); err != nil {
		return err
	}
	local := n.transform.Invert(world)
	if n.points[i].Position == local {
		return nil
	}
	n.points[i].Position = local
	n.pointModified(i)
	return nil
}

// WorldOrientation returns the orientation of point i composed with the parent transform
func (n *FiducialNode) WorldOrientation(i int) (geometry.Quaternion, error) {
	if err := n.check(i); err != nil {
		return geometry.Quaternion{}, err
	}
	return n.transform.Rotation.Mul(n.points[i].Orientation).Normalize(), nil
}

// SetWorldOrientation stores a world orientation for point i
func (n *FiducialNode) SetWorldOrientation(i int, q geometry.Quaternion) error {
	if err := n.check(i); err != nil {
		return err
	}
	return n.SetOrientation(i, n.transform.Rotation.Conjugate().Mul(q))
}

// SetOrientation stores the local orientation of point i
func (n *FiducialNode) SetOrientation(i int, q geometry.Quaternion) error {
	if err := n.check(i); err != nil {
		return err
	}
	q = q.Normalize()
	if n.points[i].Orientation == q {
		return nil
	}
	n.points[i].Orientation = q
	n.pointModified(i)
	return nil
}

// SetLabel changes the label of point i
func (n *FiducialNode) SetLabel(i int, label string) error {
	return n.update(i, func(p *Point) bool {
		changed := p.Label != label
		p.Label = label
		return changed
	})
}

// SetPointVisible changes the per-point visibility
func (n *FiducialNode) SetPointVisible(i int, visible bool) error {
	return n.update(i, func(p *Point) bool {
		changed := p.Visible != visible
		p.Visible = visible
		return changed
	})
}

// SetPointSelected changes the per-point selection
func (n *FiducialNode) SetPointSelected(i int, selected bool) error {
	return n.update(i, func(p *Point) bool {
		changed := p.Selected != selected
		p.Selected = selected
		return changed
	})
}

// SetPointLocked changes the per-point lock
func (n *FiducialNode) SetPointLocked(i int, locked bool) error {
	return n.update(i, func(p *Point) bool {
		changed := p.Locked != locked
		p.Locked = locked
		return changed
	})
}

// SetAssociatedNodeID records the node a point was placed on
func (n *FiducialNode) SetAssociatedNodeID(i int, id string) error {
	return n.update(i, func(p *Point) bool {
		changed := p.AssociatedNodeID != id
		p.AssociatedNodeID = id
		return changed
	})
}

// BeginModify starts a batch: point modifications are collected and
// delivered as one PointModified event by the matching EndModify.
func (n *FiducialNode) BeginModify() {
	n.batchDepth++
}

// EndModify closes a batch opened by BeginModify
func (n *FiducialNode) EndModify() {
	if n.batchDepth == 0 {
		return
	}
	n.batchDepth--
	if n.batchDepth > 0 || len(n.pending) == 0 {
		return
	}
	indices := n.pending
	n.pending = nil
	if n.scene != nil {
		n.scene.emit(Event{Kind: PointModified, Node: n.id, Indices: indices})
	}
}

func (n *FiducialNode) update(i int, fn func(p *Point) bool) error {
	if err := n.check(i); err != nil {
		return err
	}
	if fn(&n.points[i]) {
		n.pointModified(i)
	}
	return nil
}

func (n *FiducialNode) check(i int) error {
	if i < 0 || i >= len(n.points) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(n.points))
	}
	return nil
}

func (n *FiducialNode) pointModified(i int) {
	if n.batchDepth > 0 {
		if !slices.Contains(n.pending, i) {
			n.pending = append(n.pending, i)
		}
		return
	}
	if n.scene != nil {
		n.scene.emit(Event{Kind: PointModified, Node: n.id, Indices: []int{i}})
	}
}

func (n *FiducialNode) modified() {
	if n.scene != nil {
		n.scene.emit(Event{Kind: NodeModified, Node: n.id})
	}
}
