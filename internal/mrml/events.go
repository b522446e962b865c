package mrml

import "slices"

// EventKind identifies a scene notification
type EventKind int

const (
	NodeAdded EventKind = iota
	NodeAboutToBeRemoved
	NodeRemoved
	NodeModified
	DisplayModified
	PointAdded
	PointRemoved
	PointModified
	InteractionModeChanged
	ActivePlaceNodeChanged
	SceneEndClose
)

func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "NodeAdded"
	case NodeAboutToBeRemoved:
		return "NodeAboutToBeRemoved"
	case NodeRemoved:
		return "NodeRemoved"
	case NodeModified:
		return "NodeModified"
	case DisplayModified:
		return "DisplayModified"
	case PointAdded:
		return "PointAdded"
	case PointRemoved:
		return "PointRemoved"
	case PointModified:
		return "PointModified"
	case InteractionModeChanged:
		return "InteractionModeChanged"
	case ActivePlaceNodeChanged:
		return "ActivePlaceNodeChanged"
	case SceneEndClose:
		return "SceneEndClose"
	}
	return "Unknown"
}

// Event is delivered synchronously to every scene observer.
// Indices carries the affected point indices for point events; a batched
// PointModified lists every point touched inside the batch.
type Event struct {
	Kind    EventKind
	Node    NodeID
	Indices []int
}

// Index returns the first affected point index, or -1
func (e Event) Index() int {
	if len(e.Indices) == 0 {
		return -1
	}
	return e.Indices[0]
}

// Observer receives scene events
type Observer func(Event)

type observerEntry struct {
	id uint32
	fn Observer
}

type observers struct {
	nextID  uint32
	entries []observerEntry
}

// Subscription detaches an observer when removed
type Subscription struct {
	id  uint32
	reg *observers
}

// Remove detaches the observer. Removing twice is a no-op.
func (s Subscription) Remove() {
	if s.reg == nil {
		return
	}
	s.reg.entries = slices.DeleteFunc(s.reg.entries, func(e observerEntry) bool {
		return e.id == s.id
	})
}

func (o *observers) add(fn Observer) Subscription {
	o.nextID++
	o.entries = append(o.entries, observerEntry{id: o.nextID, fn: fn})
	return Subscription{id: o.nextID, reg: o}
}

func (o *observers) emit(ev Event) {
	// observers may detach while being notified
	for _, e := range slices.Clone(o.entries) {
		e.fn(ev)
	}
}
