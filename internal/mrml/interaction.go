package mrml

import "fmt"

// InteractionMode is the global mouse mode of the views
type InteractionMode int

const (
	ViewTransform InteractionMode = iota
	Place
)

func (m InteractionMode) String() string {
	if m == Place {
		return "place"
	}
	return "view"
}

// ParseInteractionMode parses "view" or "place"
func ParseInteractionMode(s string) (InteractionMode, error) {
	switch s {
	case "view", "":
		return ViewTransform, nil
	case "place":
		return Place, nil
	}
	return ViewTransform, fmt.Errorf("unknown interaction mode %q", s)
}

// InteractionNode is the scene singleton holding the interaction mode
type InteractionNode struct {
	scene      *Scene
	mode       InteractionMode
	persistent bool
}

// Mode returns the current interaction mode
func (n *InteractionNode) Mode() InteractionMode { return n.mode }

// PlaceModePersistent reports whether place mode survives a placement
func (n *InteractionNode) PlaceModePersistent() bool { return n.persistent }

// PlacingPersistently is true while in place mode with persistence on
func (n *InteractionNode) PlacingPersistently() bool {
	return n.mode == Place && n.persistent
}

// SetMode changes the interaction mode
func (n *InteractionNode) SetMode(mode InteractionMode) {
	if n.mode == mode {
		return
	}
	n.mode = mode
	n.scene.emit(Event{Kind: InteractionModeChanged})
}

// SetPlaceModePersistent changes place mode persistence
func (n *InteractionNode) SetPlaceModePersistent(persistent bool) {
	if n.persistent == persistent {
		return
	}
	n.persistent = persistent
	n.scene.emit(Event{Kind: InteractionModeChanged})
}

// SelectionNode is the scene singleton tracking the active point-set
type SelectionNode struct {
	scene             *Scene
	activePlaceNodeID NodeID
}

// ActivePlaceNodeID returns the point-set that receives placed points
func (n *SelectionNode) ActivePlaceNodeID() NodeID { return n.activePlaceNodeID }

// SetActivePlaceNodeID changes the active point-set
func (n *SelectionNode) SetActivePlaceNodeID(id NodeID) {
	if n.activePlaceNodeID == id {
		return
	}
	n.activePlaceNodeID = id
	n.scene.emit(Event{Kind: ActivePlaceNodeChanged, Node: id})
}
