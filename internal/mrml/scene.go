// Package mrml is the document side of the fiducial editor: a scene of
// point-set nodes, their shared display nodes, the interaction and selection
// singletons, an undo history and a synchronous notification feed.
package mrml

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// NodeID identifies a node within a scene
type NodeID string

const (
	fiducialPrefix = "FiducialNode"
	displayPrefix  = "DisplayNode"
)

var (
	ErrNilNode      = errors.New("node is nil")
	ErrNodeNotFound = errors.New("node not found")
	ErrNodeInScene  = errors.New("node already belongs to a scene")
)

// Option configures a Scene
type Option func(*Scene)

// WithLogger sets the scene logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Scene) { s.log = log }
}

// WithUndoCapacity bounds the number of undo checkpoints kept
func WithUndoCapacity(capacity int) Option {
	return func(s *Scene) { s.history = newHistory(capacity) }
}

// Scene owns every node and emits notifications for each change
type Scene struct {
	log *slog.Logger

	fiducials     map[NodeID]*FiducialNode
	fiducialOrder []NodeID
	displays      map[NodeID]*DisplayNode
	displayOrder  []NodeID
	counters      map[string]int

	interaction *InteractionNode
	selection   *SelectionNode

	observers observers
	history   *history
}

// NewScene creates an empty scene
func NewScene(opts ...Option) *Scene {
	s := &Scene{
		log:       slog.Default(),
		fiducials: make(map[NodeID]*FiducialNode),
		displays:  make(map[NodeID]*DisplayNode),
		counters:  make(map[string]int),
		history:   newHistory(defaultUndoCapacity),
	}
	s.interaction = &InteractionNode{scene: s}
	s.selection = &SelectionNode{scene: s}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe registers fn for every scene event
func (s *Scene) Observe(fn Observer) Subscription {
	return s.observers.add(fn)
}

func (s *Scene) emit(ev Event) {
	s.log.Debug("scene event", "kind", ev.Kind, "node", ev.Node, "indices", ev.Indices)
	s.observers.emit(ev)
}

// Interaction returns the interaction singleton
func (s *Scene) Interaction() *InteractionNode { return s.interaction }

// Selection returns the selection singleton
func (s *Scene) Selection() *SelectionNode { return s.selection }

func (s *Scene) nextID(prefix string) NodeID {
	s.counters[prefix]++
	return NodeID(prefix + strconv.Itoa(s.counters[prefix]))
}

// reserveID keeps generated IDs clear of an imported one
func (s *Scene) reserveID(id NodeID, prefix string) {
	if n, err := strconv.Atoi(strings.TrimPrefix(string(id), prefix)); err == nil && n > s.counters[prefix] {
		s.counters[prefix] = n
	}
}

// AddDisplayNode adds d and returns its ID
func (s *Scene) AddDisplayNode(d *DisplayNode) (NodeID, error) {
	if d == nil {
		return "", ErrNilNode
	}
	if d.scene != nil {
		return "", ErrNodeInScene
	}
	if d.id == "" {
		d.id = s.nextID(displayPrefix)
	} else {
		s.reserveID(d.id, displayPrefix)
	}
	d.scene = s
	s.displays[d.id] = d
	s.displayOrder = append(s.displayOrder, d.id)
	s.emit(Event{Kind: NodeAdded, Node: d.id})
	return d.id, nil
}

// AddFiducialNode adds n and returns its ID
func (s *Scene) AddFiducialNode(n *FiducialNode) (NodeID, error) {
	if n == nil {
		return "", ErrNilNode
	}
	if n.scene != nil {
		return "", ErrNodeInScene
	}
	if n.id == "" {
		n.id = s.nextID(fiducialPrefix)
	} else {
		s.reserveID(n.id, fiducialPrefix)
	}
	n.scene = s
	s.fiducials[n.id] = n
	s.fiducialOrder = append(s.fiducialOrder, n.id)
	s.emit(Event{Kind: NodeAdded, Node: n.id})
	return n.id, nil
}

// RemoveNode removes a fiducial or display node
func (s *Scene) RemoveNode(id NodeID) error {
	if n, ok := s.fiducials[id]; ok {
		s.emit(Event{Kind: NodeAboutToBeRemoved, Node: id})
		delete(s.fiducials, id)
		s.fiducialOrder = slices.DeleteFunc(s.fiducialOrder, func(o NodeID) bool { return o == id })
		n.scene = nil
		if s.selection.activePlaceNodeID == id {
			s.selection.SetActivePlaceNodeID("")
		}
		s.emit(Event{Kind: NodeRemoved, Node: id})
		return nil
	}
	if d, ok := s.displays[id]; ok {
		s.emit(Event{Kind: NodeAboutToBeRemoved, Node: id})
		delete(s.displays, id)
		s.displayOrder = slices.DeleteFunc(s.displayOrder, func(o NodeID) bool { return o == id })
		d.scene = nil
		s.emit(Event{Kind: NodeRemoved, Node: id})
		// referencing point-sets lost their style
		for _, n := range s.NodesReferencing(id) {
			n.modified()
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
}

// FiducialNode returns the point-set with the given ID, or nil
func (s *Scene) FiducialNode(id NodeID) *FiducialNode {
	return s.fiducials[id]
}

// DisplayNode returns the display node with the given ID, or nil
func (s *Scene) DisplayNode(id NodeID) *DisplayNode {
	return s.displays[id]
}

// FiducialNodes returns the point-sets in insertion order
func (s *Scene) FiducialNodes() []*FiducialNode {
	nodes := make([]*FiducialNode, 0, len(s.fiducialOrder))
	for _, id := range s.fiducialOrder {
		nodes = append(nodes, s.fiducials[id])
	}
	return nodes
}

// DisplayNodes returns the display nodes in insertion order
func (s *Scene) DisplayNodes() []*DisplayNode {
	nodes := make([]*DisplayNode, 0, len(s.displayOrder))
	for _, id := range s.displayOrder {
		nodes = append(nodes, s.displays[id])
	}
	return nodes
}

// NodesReferencing returns the point-sets that use display node id
func (s *Scene) NodesReferencing(id NodeID) []*FiducialNode {
	var nodes []*FiducialNode
	for _, n := range s.FiducialNodes() {
		if n.displayNodeID == id {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Clear removes every node, resets the singletons and emits SceneEndClose.
// The undo history is kept.
func (s *Scene) Clear() {
	for _, id := range slices.Clone(s.fiducialOrder) {
		_ = s.RemoveNode(id)
	}
	for _, id := range slices.Clone(s.displayOrder) {
		_ = s.RemoveNode(id)
	}
	s.counters = make(map[string]int)
	s.interaction.mode = ViewTransform
	s.interaction.persistent = false
	s.selection.activePlaceNodeID = ""
	s.emit(Event{Kind: SceneEndClose})
}
