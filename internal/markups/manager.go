// Package markups keeps interactive handles in sync with the fiducial
// point-sets of a scene. Each point gets a position handle and an
// orientation handle; edits on either side are propagated to the other
// without feedback loops.
package markups

import (
	"log/slog"

	"github.com/philipparndt/fiducials/internal/mrml"
)

// DefaultNodeName names point-sets created by click-to-place
const DefaultNodeName = "F"

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithDefaultStyle sets the style of display nodes created on placement
func WithDefaultStyle(style mrml.Style) Option {
	return func(m *Manager) { m.defaultStyle = style }
}

// WithNodeName sets the name of point-sets created on placement
func WithNodeName(name string) Option {
	return func(m *Manager) { m.nodeName = name }
}

// Manager owns the widget sets of every point-set in a scene
type Manager struct {
	scene        *mrml.Scene
	coords       CoordinateAdapter
	log          *slog.Logger
	defaultStyle mrml.Style
	nodeName     string

	widgets map[mrml.NodeID]*WidgetSet
	glyphs  glyphMemo
	guard   guard
	sub     mrml.Subscription
}

// New creates a manager, builds widgets for the point-sets already in the
// scene and starts following scene notifications.
func New(scene *mrml.Scene, coords CoordinateAdapter, opts ...Option) *Manager {
	m := &Manager{
		scene:        scene,
		coords:       coords,
		log:          slog.Default(),
		defaultStyle: mrml.DefaultStyle(),
		nodeName:     DefaultNodeName,
		widgets:      make(map[mrml.NodeID]*WidgetSet),
		glyphs:       make(glyphMemo),
		guard:        newGuard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, n := range scene.FiducialNodes() {
		if err := m.AddNode(n); err != nil {
			m.log.Error("create widgets", "node", n.ID(), "error", err)
		}
	}
	m.sub = scene.Observe(m.onSceneEvent)
	return m
}

// Scene returns the scene the manager follows
func (m *Manager) Scene() *mrml.Scene { return m.scene }

// Updating reports whether a propagation is in progress for any node
func (m *Manager) Updating() bool { return m.guard.busy() }

// Widgets returns the widget set of a point-set
func (m *Manager) Widgets(id mrml.NodeID) (*WidgetSet, bool) {
	ws, ok := m.widgets[id]
	return ws, ok
}

// AddNode creates the widgets of a point-set and fills them from the document
func (m *Manager) AddNode(node *mrml.FiducialNode) error {
	if _, err := m.CreateWidgetsForNode(node); err != nil {
		return err
	}
	return m.ApplyDocumentToWidgets(node)
}

// Close stops following the scene and destroys every widget
func (m *Manager) Close() {
	m.sub.Remove()
	for id := range m.widgets {
		m.DestroyWidgetsForNode(id)
	}
	clear(m.glyphs)
}
