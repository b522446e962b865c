package markups

import "github.com/philipparndt/fiducials/internal/mrml"

// direction names the propagation a node is currently going through
type direction int

const (
	idle direction = iota
	documentToWidgets
	widgetsToDocument
)

func (d direction) String() string {
	switch d {
	case documentToWidgets:
		return "document->widgets"
	case widgetsToDocument:
		return "widgets->document"
	}
	return "idle"
}

// guard tracks one propagation session per node. While a session is open,
// notifications for that node are dropped instead of starting a propagation
// in either direction.
type guard struct {
	sessions map[mrml.NodeID]direction
}

func newGuard() guard {
	return guard{sessions: make(map[mrml.NodeID]direction)}
}

// enter opens a session. It returns false when one is already open for id.
func (g *guard) enter(id mrml.NodeID, d direction) (release func(), ok bool) {
	if g.sessions[id] != idle {
		return func() {}, false
	}
	g.sessions[id] = d
	return func() { delete(g.sessions, id) }, true
}

func (g *guard) active(id mrml.NodeID) direction {
	return g.sessions[id]
}

func (g *guard) busy() bool {
	return len(g.sessions) > 0
}
