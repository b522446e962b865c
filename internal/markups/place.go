package markups

import (
	"fmt"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// PlaceKey is the key that places a point under the cursor in place mode
const PlaceKey = "p"

// Placement describes a point added by OnClick
type Placement struct {
	Node    mrml.NodeID
	Index   int
	World   geometry.Vector3
	NewNode bool
}

// OnClick places a point at display coordinates (x, y) in the active
// point-set, creating one named after the manager's node name when there is
// none. associatedID records the node the click landed on and may be empty.
// Unless place mode is persistent, the interaction falls back to view mode.
func (m *Manager) OnClick(x, y float64, associatedID string) (Placement, error) {
	if m.coords == nil {
		return Placement{}, fmt.Errorf("place: no coordinate adapter")
	}
	world := m.coords.DisplayToWorld(x, y)

	selection := m.scene.Selection()
	node := m.scene.FiducialNode(selection.ActivePlaceNodeID())
	newNode := node == nil
	if newNode {
		node = mrml.NewFiducialNode(m.nodeName)
	}

	index := node.AddLabeledPoint(world, node.NextLabel())

	interaction := m.scene.Interaction()
	if !interaction.PlaceModePersistent() {
		interaction.SetMode(mrml.ViewTransform)
	}
	if err := m.scene.SaveStateForUndo(node); err != nil {
		m.log.Error("undo checkpoint", "error", err)
	}
	if associatedID != "" {
		if err := node.SetAssociatedNodeID(index, associatedID); err != nil {
			m.log.Error("associate point", "node", node.Name(), "index", index, "error", err)
		}
	}

	if newNode {
		display := mrml.NewDisplayNode(m.defaultStyle)
		if _, err := m.scene.AddDisplayNode(display); err != nil {
			return Placement{}, fmt.Errorf("place: %w", err)
		}
		node.SetDisplayNodeID(display.ID())
		if _, err := m.scene.AddFiducialNode(node); err != nil {
			return Placement{}, fmt.Errorf("place: %w", err)
		}
		selection.SetActivePlaceNodeID(node.ID())
	}

	m.log.Info("point placed", "node", node.ID(), "index", index,
		"x", world.X, "y", world.Y, "z", world.Z)
	return Placement{Node: node.ID(), Index: index, World: world, NewNode: newNode}, nil
}

// OnKeyPress places a point at the cursor when PlaceKey is pressed in place
// mode. Other keys are ignored.
func (m *Manager) OnKeyPress(key string, x, y float64) (Placement, error) {
	if key != PlaceKey {
		return Placement{}, nil
	}
	if m.scene.Interaction().Mode() != mrml.Place {
		return Placement{}, ErrNotPlaceMode
	}
	return m.OnClick(x, y, "")
}
