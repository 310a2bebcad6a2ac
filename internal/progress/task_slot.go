package progress

import (
	"sync"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

// TaskSlot is a single-occupancy latch guarding a long-running operation
// ("archive" or "check"). At most one Guard may be installed at a time.
type TaskSlot struct {
	mu    sync.Mutex
	guard *Guard
}

// acquire installs g into the slot, failing with Busy if already occupied.
func (s *TaskSlot) acquire(g *Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard != nil {
		return objecterrors.Busyf("a conflicting operation is already running")
	}
	s.guard = g
	return nil
}

// vacate clears the slot if it still holds g (a newer guard may have
// replaced it, though the single-occupancy contract makes that only
// possible after a prior vacate).
func (s *TaskSlot) vacate(g *Guard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard == g {
		s.guard = nil
	}
}

// Active returns the guard currently installed in the slot, or nil if
// vacant.
func (s *TaskSlot) Active() *Guard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard
}
