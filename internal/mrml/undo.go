package mrml

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const defaultUndoCapacity = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// history keeps YAML snapshots of the whole scene. The oldest checkpoint is
// dropped once capacity is reached.
type history struct {
	capacity int
	undo     [][]byte
	redo     [][]byte
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = defaultUndoCapacity
	}
	return &history{capacity: capacity}
}

func (h *history) push(state []byte) {
	h.undo = append(h.undo, state)
	if len(h.undo) > h.capacity {
		h.undo = h.undo[len(h.undo)-h.capacity:]
	}
	h.redo = nil
}

func pop(stack *[][]byte) []byte {
	s := *stack
	state := s[len(s)-1]
	*stack = s[:len(s)-1]
	return state
}

func (s *Scene) snapshot() ([]byte, error) {
	data, err := yaml.Marshal(s.document())
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return data, nil
}

func (s *Scene) restore(data []byte) error {
	var doc sceneDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return s.replace(doc)
}

// SaveStateForUndo records a checkpoint of the current scene. node names the
// node about to change and is only used for logging; it may be nil.
func (s *Scene) SaveStateForUndo(node *FiducialNode) error {
	state, err := s.snapshot()
	if err != nil {
		return err
	}
	s.history.push(state)
	if node != nil {
		s.log.Debug("undo checkpoint", "node", node.id, "depth", len(s.history.undo))
	} else {
		s.log.Debug("undo checkpoint", "depth", len(s.history.undo))
	}
	return nil
}

// CanUndo reports whether a checkpoint is available
func (s *Scene) CanUndo() bool { return len(s.history.undo) > 0 }

// CanRedo reports whether an undone state can be re-applied
func (s *Scene) CanRedo() bool { return len(s.history.redo) > 0 }

// Undo restores the most recent checkpoint
func (s *Scene) Undo() error {
	if !s.CanUndo() {
		return ErrNothingToUndo
	}
	current, err := s.snapshot()
	if err != nil {
		return err
	}
	state := pop(&s.history.undo)
	if err := s.restore(state); err != nil {
		return err
	}
	s.history.redo = append(s.history.redo, current)
	return nil
}

// Redo re-applies the most recently undone state
func (s *Scene) Redo() error {
	if !s.CanRedo() {
		return ErrNothingToRedo
	}
	current, err := s.snapshot()
	if err != nil {
		return err
	}
	state := pop(&s.history.redo)
	if err := s.restore(state); err != nil {
		return err
	}
	s.history.undo = append(s.history.undo, current)
	return nil
}
