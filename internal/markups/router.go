package markups

import (
	"fmt"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/internal/widget"
)

// onSceneEvent routes document notifications to the matching propagation.
// Notifications for a node with an open propagation session are dropped.
func (m *Manager) onSceneEvent(ev mrml.Event) {
	if ev.Kind == mrml.SceneEndClose {
		m.OnSceneEndClose()
		return
	}
	if ev.Kind == mrml.InteractionModeChanged {
		m.onInteractionModeChanged()
		return
	}
	if ev.Kind == mrml.DisplayModified {
		for _, n := range m.scene.NodesReferencing(ev.Node) {
			m.report("display modified", n.ID(), m.ApplyDocumentToWidgets(n))
		}
		return
	}
	if ev.Kind == mrml.NodeAboutToBeRemoved {
		m.DestroyWidgetsForNode(ev.Node)
		return
	}

	node := m.scene.FiducialNode(ev.Node)
	if node == nil {
		return
	}
	if d := m.guard.active(ev.Node); d != idle {
		m.log.Debug("notification during propagation dropped", "node", ev.Node, "event", ev.Kind, "active", d)
		return
	}

	switch ev.Kind {
	case mrml.NodeAdded:
		m.report("node added", node.ID(), m.AddNode(node))
	case mrml.NodeModified:
		if _, ok := m.widgets[node.ID()]; ok {
			m.report("node modified", node.ID(), m.ApplyDocumentToWidgets(node))
		}
	case mrml.PointAdded:
		m.report("point added", node.ID(), m.OnPointAdded(node, ev.Index()))
	case mrml.PointRemoved:
		m.report("point removed", node.ID(), m.OnPointRemoved(node, ev.Index()))
	case mrml.PointModified:
		for _, i := range ev.Indices {
			m.report("point modified", node.ID(), m.OnPointModified(node, i))
		}
	}
}

func (m *Manager) report(msg string, id mrml.NodeID, err error) {
	if err != nil {
		m.log.Error(msg, "node", id, "error", err)
	}
}

func (m *Manager) onInteractionModeChanged() {
	for _, n := range m.scene.FiducialNodes() {
		if _, ok := m.widgets[n.ID()]; !ok {
			continue
		}
		m.report("interaction mode changed", n.ID(), m.UpdateLockedFromInteractionNode(n))
	}
}

// OnPointAdded grows the widgets of node by one slot and fills it
func (m *Manager) OnPointAdded(node *mrml.FiducialNode, index int) error {
	if node == nil {
		return ErrNilNode
	}
	ws, ok := m.widgets[node.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoWidgets, node.ID())
	}
	count := node.NumberOfPoints()
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, count)
	}
	if ws.Seeds.Len() != index || len(ws.orientation) != index || index != count-1 {
		m.log.Warn("point added out of order, rebuilding", "node", node.ID(), "index", index, "points", count)
		return m.rebuild(node)
	}
	return m.applyPoint(node, ws, index)
}

// OnPointRemoved rebuilds the widgets of node since every handle above the
// removed index changes identity
func (m *Manager) OnPointRemoved(node *mrml.FiducialNode, index int) error {
	if node == nil {
		return ErrNilNode
	}
	if _, ok := m.widgets[node.ID()]; !ok {
		return fmt.Errorf("%w: %s", ErrNoWidgets, node.ID())
	}
	m.log.Debug("point removed", "node", node.ID(), "index", index)
	return m.rebuild(node)
}

// OnPointModified refreshes the handles of a single point
func (m *Manager) OnPointModified(node *mrml.FiducialNode, index int) error {
	if node == nil {
		return ErrNilNode
	}
	ws, ok := m.widgets[node.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoWidgets, node.ID())
	}
	count := node.NumberOfPoints()
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, count)
	}
	if !ws.consistent(count) {
		m.log.Warn("widget count out of sync, rebuilding", "node", node.ID(), "points", count)
		return m.rebuild(node)
	}
	return m.applyPoint(node, ws, index)
}

// OnSceneEndClose drops every widget and the glyph memo
func (m *Manager) OnSceneEndClose() {
	for id := range m.widgets {
		m.DestroyWidgetsForNode(id)
	}
	clear(m.glyphs)
	m.log.Debug("scene closed")
}

// onWidgetEvent reads a handle interaction back into the document. The undo
// checkpoint is taken when a handle is pressed, so one undo reverts the
// whole drag.
func (m *Manager) onWidgetEvent(id mrml.NodeID, ev widget.Event) {
	if d := m.guard.active(id); d != idle {
		m.log.Debug("widget event during propagation dropped", "node", id, "event", ev.Kind, "active", d)
		return
	}
	node := m.scene.FiducialNode(id)
	if node == nil {
		m.log.Error("widget event for unknown node", "node", id)
		return
	}
	if ev.Kind == widget.StartInteraction {
		if err := m.scene.SaveStateForUndo(node); err != nil {
			m.log.Error("undo checkpoint", "node", id, "error", err)
		}
		return
	}
	m.report("widgets to document", id, m.ApplyWidgetsToDocument(node))
}
