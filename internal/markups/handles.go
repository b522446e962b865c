package markups

import (
	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/internal/widget"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// VisibleHandle is a snapshot of one shown handle, for drawing and picking
type VisibleHandle struct {
	Node     mrml.NodeID
	Index    int
	Kind     widget.Kind
	Position geometry.Vector3
	Pointer  geometry.Vector3
	Label    string
	Glyph    widget.Glyph
	Style    widget.Style
	Locked   bool
	Selected bool
}

// VisibleHandles lists the visible handles of every point-set in scene order
func (m *Manager) VisibleHandles() []VisibleHandle {
	var handles []VisibleHandle
	for _, node := range m.scene.FiducialNodes() {
		ws, ok := m.widgets[node.ID()]
		if !ok {
			continue
		}
		for i, h := range ws.Seeds.Seeds() {
			if !h.Visible() || !ws.Seeds.Enabled() {
				continue
			}
			p, _ := node.Point(i)
			label := ""
			if h.Label().Visible {
				label = h.Label().Text
			}
			handles = append(handles, VisibleHandle{
				Node: node.ID(), Index: i, Kind: widget.KindPosition,
				Position: h.WorldPosition(), Label: label, Glyph: h.Glyph(),
				Style: h.Style(), Locked: h.Locked(), Selected: p.Selected,
			})
		}
		for i, h := range ws.orientation {
			if !h.Visible() {
				continue
			}
			p, _ := node.Point(i)
			handles = append(handles, VisibleHandle{
				Node: node.ID(), Index: i, Kind: widget.KindOrientation,
				Position: h.Center(), Pointer: h.Pointer(), Label: p.Label,
				Style: h.Style(), Locked: h.Locked(), Selected: p.Selected,
			})
		}
	}
	return handles
}

// Handle resolves a listed handle back to the live widget
func (m *Manager) Handle(v VisibleHandle) widget.Handle {
	ws, ok := m.widgets[v.Node]
	if !ok {
		return nil
	}
	return ws.Handle(v.Kind, v.Index)
}
