package markups

import (
	"fmt"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/internal/widget"
)

// WidgetSet holds the handles of one point-set: a seed set of position
// handles and a parallel list of orientation handles, both indexed like the
// points of the node.
type WidgetSet struct {
	node        mrml.NodeID
	Seeds       *widget.SeedSet
	orientation []*widget.OrientationHandle
	subs        []widget.CallbackHandle
	onEvent     func(widget.Event)
}

// Node returns the ID of the point-set the widgets belong to
func (ws *WidgetSet) Node() mrml.NodeID { return ws.node }

// Len returns the number of position handles
func (ws *WidgetSet) Len() int { return ws.Seeds.Len() }

// Position returns position handle i or nil
func (ws *WidgetSet) Position(i int) *widget.PositionHandle {
	return ws.Seeds.Seed(i)
}

// Orientation returns orientation handle i or nil
func (ws *WidgetSet) Orientation(i int) *widget.OrientationHandle {
	if i < 0 || i >= len(ws.orientation) {
		return nil
	}
	return ws.orientation[i]
}

// OrientationHandles returns the orientation handles in index order
func (ws *WidgetSet) OrientationHandles() []*widget.OrientationHandle {
	return append([]*widget.OrientationHandle(nil), ws.orientation...)
}

// Handle returns handle i of the given kind
func (ws *WidgetSet) Handle(kind widget.Kind, i int) widget.Handle {
	if kind == widget.KindOrientation {
		if h := ws.Orientation(i); h != nil {
			return h
		}
		return nil
	}
	if h := ws.Position(i); h != nil {
		return h
	}
	return nil
}

// Revision changes whenever any handle of the set changes
func (ws *WidgetSet) Revision() uint64 {
	total := ws.Seeds.Revision()
	for _, h := range ws.orientation {
		total += h.Revision()
	}
	return total
}

func (ws *WidgetSet) consistent(count int) bool {
	return ws.Seeds.Len() == count && len(ws.orientation) == count
}

func (ws *WidgetSet) addOrientationHandle() *widget.OrientationHandle {
	h := widget.NewOrientationHandle(len(ws.orientation))
	ws.subs = append(ws.subs, h.OnEvent(ws.onEvent))
	ws.orientation = append(ws.orientation, h)
	return h
}

func (ws *WidgetSet) destroy() {
	for _, sub := range ws.subs {
		sub.Remove()
	}
	ws.subs = nil
	for _, h := range ws.orientation {
		h.Destroy()
	}
	ws.orientation = nil
	ws.Seeds.Destroy()
}

// CreateWidgetsForNode creates an empty widget set for a point-set. An
// existing set is returned unchanged.
func (m *Manager) CreateWidgetsForNode(node *mrml.FiducialNode) (*WidgetSet, error) {
	if node == nil {
		m.log.Error("create widgets", "error", ErrNilNode)
		return nil, ErrNilNode
	}
	if node.ID() == "" {
		return nil, fmt.Errorf("create widgets: %w", mrml.ErrNodeNotFound)
	}
	if ws, ok := m.widgets[node.ID()]; ok {
		return ws, nil
	}

	id := node.ID()
	ws := &WidgetSet{node: id, Seeds: widget.NewSeedSet()}
	ws.onEvent = func(ev widget.Event) { m.onWidgetEvent(id, ev) }
	// placement is driven by the document, handles are only ever moved
	ws.Seeds.CompleteInteraction()
	ws.subs = append(ws.subs, ws.Seeds.OnEvent(ws.onEvent))
	m.widgets[id] = ws
	m.log.Debug("widgets created", "node", id)
	return ws, nil
}

// DestroyWidgetsForNode tears down the widgets of a point-set
func (m *Manager) DestroyWidgetsForNode(id mrml.NodeID) {
	ws, ok := m.widgets[id]
	if !ok {
		return
	}
	ws.destroy()
	delete(m.widgets, id)
	m.glyphs.forget(id)
	m.log.Debug("widgets destroyed", "node", id)
}

// rebuild replaces the widgets of a node with fresh ones filled from the
// document
func (m *Manager) rebuild(node *mrml.FiducialNode) error {
	m.DestroyWidgetsForNode(node.ID())
	return m.AddNode(node)
}

type glyphKey struct {
	node    mrml.NodeID
	display mrml.NodeID
	index   int
}

// glyphMemo remembers the glyph kind last applied per point-set, display
// node and point. Point-sets sharing a display node are tracked separately.
type glyphMemo map[glyphKey]mrml.GlyphType

func (g glyphMemo) changed(node, display mrml.NodeID, index int, kind mrml.GlyphType) bool {
	last, ok := g[glyphKey{node, display, index}]
	return !ok || last != kind
}

func (g glyphMemo) set(node, display mrml.NodeID, index int, kind mrml.GlyphType) {
	g[glyphKey{node, display, index}] = kind
}

// forget drops every entry of a point-set
func (g glyphMemo) forget(node mrml.NodeID) {
	for key := range g {
		if key.node == node {
			delete(g, key)
		}
	}
}

const (
	sphereRadius     = 0.5
	sphereResolution = 10
)

// glyphFor maps a glyph type to handle geometry. The diamond is drawn flat.
func glyphFor(kind mrml.GlyphType) widget.Glyph {
	switch kind {
	case mrml.Sphere3D:
		return widget.Glyph{Name: kind.String(), Sphere: true, Radius: sphereRadius, Resolution: sphereResolution}
	case mrml.Diamond3D:
		return widget.Glyph{Name: mrml.Diamond2D.String()}
	}
	return widget.Glyph{Name: kind.String()}
}
