package widget

import "slices"

// SeedState is the state of a SeedSet
type SeedState int

const (
	// SeedPlacing accepts new seeds from clicks
	SeedPlacing SeedState = iota
	// SeedMoving is reached once placement is complete; seeds can be dragged
	SeedMoving
)

func (s SeedState) String() string {
	if s == SeedMoving {
		return "moving"
	}
	return "placing"
}

// SeedSet owns the ordered position handles of one point-set
type SeedSet struct {
	seeds         []*PositionHandle
	enabled       bool
	processEvents bool
	state         SeedState
	revision      uint64
	events        callbacks
}

// NewSeedSet creates an empty, disabled seed set in the placing state
func NewSeedSet() *SeedSet {
	return &SeedSet{processEvents: true}
}

// CreateNewHandle appends a handle. New handles are enabled and visible.
func (s *SeedSet) CreateNewHandle() *PositionHandle {
	h := &PositionHandle{
		base:        newBase(len(s.seeds)),
		set:         s,
		orientation: identity(),
	}
	s.seeds = append(s.seeds, h)
	s.revision++
	return h
}

// Len returns the number of seeds
func (s *SeedSet) Len() int { return len(s.seeds) }

// Seed returns handle i or nil
func (s *SeedSet) Seed(i int) *PositionHandle {
	if i < 0 || i >= len(s.seeds) {
		return nil
	}
	return s.seeds[i]
}

// Seeds returns the handles in index order
func (s *SeedSet) Seeds() []*PositionHandle {
	return slices.Clone(s.seeds)
}

// Enabled reports whether the set is shown and interactive as a whole
func (s *SeedSet) Enabled() bool { return s.enabled }

// SetEnabled toggles the whole set
func (s *SeedSet) SetEnabled(enabled bool) bool {
	if s.enabled == enabled {
		return false
	}
	s.enabled = enabled
	s.revision++
	return true
}

// ProcessEvents reports whether the set reacts to input
func (s *SeedSet) ProcessEvents() bool { return s.processEvents }

// SetProcessEvents locks (false) or unlocks (true) the whole set
func (s *SeedSet) SetProcessEvents(on bool) bool {
	if s.processEvents == on {
		return false
	}
	s.processEvents = on
	s.revision++
	return true
}

// State returns the set state
func (s *SeedSet) State() SeedState { return s.state }

// CompleteInteraction ends placement; seeds can be moved afterwards
func (s *SeedSet) CompleteInteraction() {
	if s.state != SeedMoving {
		s.state = SeedMoving
		s.revision++
	}
}

// Revision changes whenever the set or any of its seeds changes
func (s *SeedSet) Revision() uint64 {
	total := s.revision
	for _, h := range s.seeds {
		total += h.revision
	}
	return total
}

// OnEvent registers fn for the events of every seed
func (s *SeedSet) OnEvent(fn func(Event)) CallbackHandle {
	return s.events.add(fn)
}

// Destroy detaches every callback and drops the seeds
func (s *SeedSet) Destroy() {
	for _, h := range s.seeds {
		h.events.clear()
		h.set = nil
		h.enabled = false
	}
	s.seeds = nil
	s.events.clear()
	s.enabled = false
}
