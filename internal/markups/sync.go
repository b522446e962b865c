package markups

import (
	"fmt"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/internal/widget"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// appearance is what the display node contributes to a handle. Without a
// display node handles stay visible and keep their style.
type appearance struct {
	display mrml.NodeID
	style   mrml.Style
	styled  bool
}

func (a appearance) visible() bool {
	return !a.styled || a.style.Visibility
}

func (m *Manager) appearanceOf(node *mrml.FiducialNode) appearance {
	d := node.DisplayNode()
	if d == nil {
		m.log.Debug("no display node, style not applied", "node", node.ID())
		return appearance{}
	}
	return appearance{display: d.ID(), style: d.Style(), styled: true}
}

func (m *Manager) locked(node *mrml.FiducialNode, p mrml.Point) bool {
	return node.Locked() || p.Locked || m.scene.Interaction().PlacingPersistently()
}

// ApplyDocumentToWidgets pushes every point of node into its handles. A
// widget set longer than the point list is stale and gets rebuilt.
func (m *Manager) ApplyDocumentToWidgets(node *mrml.FiducialNode) error {
	if node == nil {
		m.log.Error("document to widgets", "error", ErrNilNode)
		return ErrNilNode
	}
	ws, ok := m.widgets[node.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoWidgets, node.ID())
	}
	count := node.NumberOfPoints()
	if ws.Seeds.Len() > count || len(ws.orientation) > count {
		m.log.Warn("stale widgets, rebuilding", "node", node.ID(),
			"points", count, "seeds", ws.Seeds.Len(), "orientation", len(ws.orientation))
		return m.rebuild(node)
	}

	release, ok := m.guard.enter(node.ID(), documentToWidgets)
	if !ok {
		m.log.Debug("propagation in progress, skipped", "node", node.ID(), "active", m.guard.active(node.ID()))
		return nil
	}
	defer release()

	look := m.appearanceOf(node)
	for i := range count {
		m.applyPosition(node, ws, look, i)
	}
	m.applySeedSetEnabled(node, ws, look)
	for i := range count {
		m.applyOrientation(node, ws, look, i)
	}
	return nil
}

// applyPoint pushes a single point into both of its handles
func (m *Manager) applyPoint(node *mrml.FiducialNode, ws *WidgetSet, i int) error {
	release, ok := m.guard.enter(node.ID(), documentToWidgets)
	if !ok {
		m.log.Debug("propagation in progress, skipped", "node", node.ID(), "index", i)
		return nil
	}
	defer release()

	look := m.appearanceOf(node)
	m.applyPosition(node, ws, look, i)
	m.applySeedSetEnabled(node, ws, look)
	m.applyOrientation(node, ws, look, i)
	return nil
}

func (m *Manager) applySeedSetEnabled(node *mrml.FiducialNode, ws *WidgetSet, look appearance) {
	ws.Seeds.SetProcessEvents(!node.Locked())
	enabled := look.visible() && node.Mode() == mrml.PositionMode
	if ws.Seeds.Enabled() != enabled {
		ws.Seeds.SetEnabled(enabled)
		ws.Seeds.CompleteInteraction()
	}
}

func (m *Manager) applyPosition(node *mrml.FiducialNode, ws *WidgetSet, look appearance, i int) {
	p, err := node.Point(i)
	if err != nil {
		m.log.Error("document to widgets", "node", node.ID(), "error", err)
		return
	}
	world, _ := node.WorldPosition(i)
	orientation, _ := node.WorldOrientation(i)

	created := false
	for ws.Seeds.Len() <= i {
		ws.Seeds.CreateNewHandle()
		created = true
	}
	h := ws.Seeds.Seed(i)

	if WorldCoordinatesChanged(h.WorldPosition(), world) {
		h.SetWorldPosition(world)
	}
	h.SetOrientation(orientation)
	h.SetLabelText(p.Label)

	visible := look.visible() && p.Visible && node.Mode() == mrml.PositionMode
	h.SetVisible(visible)
	h.SetEnabled(visible)
	h.SetLabelVisible(visible && p.Label != "")
	h.SetLocked(m.locked(node, p))

	if !look.styled {
		return
	}
	if created || m.glyphs.changed(node.ID(), look.display, i, look.style.Glyph) {
		h.SetGlyph(glyphFor(look.style.Glyph))
		m.glyphs.set(node.ID(), look.display, i, look.style.Glyph)
	}
	color := widget.Color(look.style.Color)
	if p.Selected {
		color = widget.Color(look.style.SelectedColor)
	}
	if p.Label != "" {
		h.SetLabelStyle(look.style.TextScale, color, look.style.Opacity)
	}
	h.SetStyle(handleStyle(look.style, color))
}

func (m *Manager) applyOrientation(node *mrml.FiducialNode, ws *WidgetSet, look appearance, i int) {
	p, err := node.Point(i)
	if err != nil {
		m.log.Error("document to widgets", "node", node.ID(), "error", err)
		return
	}
	world, _ := node.WorldPosition(i)
	orientation, _ := node.WorldOrientation(i)

	for len(ws.orientation) <= i {
		ws.addOrientationHandle()
	}
	h := ws.orientation[i]

	if WorldCoordinatesChanged(h.Center(), world) {
		h.SetCenter(world)
	}
	pointer := world.Add(orientation.ToMatrix3().Column(2))
	if WorldCoordinatesChanged(h.Pointer(), pointer) {
		h.SetPointer(pointer)
	}

	visible := look.visible() && p.Visible && node.Mode() == mrml.OrientationMode
	h.SetVisible(visible)
	h.SetEnabled(visible)
	h.SetLocked(m.locked(node, p))

	if !look.styled {
		return
	}
	color := widget.Color(look.style.Color)
	if p.Selected {
		color = widget.Color(look.style.SelectedColor)
	}
	h.SetStyle(handleStyle(look.style, color))
}

func handleStyle(s mrml.Style, color widget.Color) widget.Style {
	return widget.Style{
		Color:    color,
		Opacity:  s.Opacity,
		Ambient:  s.Ambient,
		Diffuse:  s.Diffuse,
		Specular: s.Specular,
		Scale:    s.GlyphScale,
	}
}

// ApplyWidgetsToDocument reads dragged handles back into node. Position
// handles are read once the seed set is past placement; orientation handles
// only while they are being moved. Unchanged values are not written.
func (m *Manager) ApplyWidgetsToDocument(node *mrml.FiducialNode) error {
	if node == nil {
		m.log.Error("widgets to document", "error", ErrNilNode)
		return ErrNilNode
	}
	ws, ok := m.widgets[node.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoWidgets, node.ID())
	}
	count := node.NumberOfPoints()
	if !ws.consistent(count) {
		err := fmt.Errorf("%w: %d points, %d position and %d orientation handles",
			ErrCountMismatch, count, ws.Seeds.Len(), len(ws.orientation))
		m.log.Error("widgets to document", "node", node.ID(), "error", err)
		return err
	}

	release, ok := m.guard.enter(node.ID(), widgetsToDocument)
	if !ok {
		m.log.Debug("propagation in progress, skipped", "node", node.ID(), "active", m.guard.active(node.ID()))
		return nil
	}
	// the batched notification is delivered after the session closes so
	// the handles are re-applied from the written values
	node.BeginModify()
	defer node.EndModify()
	defer release()

	if ws.Seeds.State() == widget.SeedMoving {
		for i, h := range ws.Seeds.Seeds() {
			world, _ := node.WorldPosition(i)
			if WorldCoordinatesChanged(world, h.WorldPosition()) {
				if err := node.SetWorldPosition(i, h.WorldPosition()); err != nil {
					m.log.Error("write seed position", "node", node.ID(), "index", i, "error", err)
				}
			}
		}
	}
	for i, h := range ws.orientation {
		if h.State() != widget.StateMoving {
			continue
		}
		m.readOrientation(node, h, i)
	}
	return nil
}

func (m *Manager) readOrientation(node *mrml.FiducialNode, h *widget.OrientationHandle, i int) {
	world, _ := node.WorldPosition(i)
	if WorldCoordinatesChanged(world, h.Center()) {
		if err := node.SetWorldPosition(i, h.Center()); err != nil {
			m.log.Error("write handle center", "node", node.ID(), "index", i, "error", err)
		}
	}

	direction := h.Direction()
	if direction.Length() == 0 {
		m.log.Warn("orientation pointer on center, ignored", "node", node.ID(), "index", i)
		return
	}
	current, _ := node.WorldOrientation(i)
	if !WorldCoordinatesChanged(current.ToMatrix3().Column(2), direction.Normalize()) {
		return
	}
	if err := node.SetWorldOrientation(i, geometry.RotationFromDirection(direction)); err != nil {
		m.log.Error("write handle orientation", "node", node.ID(), "index", i, "error", err)
	}
}

// UpdateNodeWidgetsLocks applies a node-level lock to the seed set and the
// per-point locks to every handle of node
func (m *Manager) UpdateNodeWidgetsLocks(node *mrml.FiducialNode, locked bool) error {
	if node == nil {
		return ErrNilNode
	}
	ws, ok := m.widgets[node.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoWidgets, node.ID())
	}
	count := node.NumberOfPoints()
	if !ws.consistent(count) {
		return fmt.Errorf("%w: %d points, %d handles", ErrCountMismatch, count, ws.Seeds.Len())
	}

	ws.Seeds.SetProcessEvents(!locked)
	persistent := m.scene.Interaction().PlacingPersistently()
	for i := range count {
		p, _ := node.Point(i)
		l := locked || p.Locked || persistent
		ws.Seeds.Seed(i).SetLocked(l)
		ws.orientation[i].SetLocked(l)
	}
	return nil
}

// UpdateLockedFromInteractionNode re-applies locks after the interaction
// mode changed
func (m *Manager) UpdateLockedFromInteractionNode(node *mrml.FiducialNode) error {
	if node == nil {
		return ErrNilNode
	}
	return m.UpdateNodeWidgetsLocks(node, node.Locked())
}
