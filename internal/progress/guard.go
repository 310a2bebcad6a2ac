// Package progress implements the shared, cloneable progress counter and
// per-object error log used by the object store's long-running operations
// (archive, check), plus the task-slot latch that keeps at most one of
// each running at a time.
package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ObjectErrorEntry is one row of a Messages() snapshot, shaped for
// catalog.ObjectError.
type ObjectErrorEntry struct {
	ObjectID uuid.UUID
	Messages []string
}

// Guard is a live handle onto a running operation's progress. All handles
// produced by Clone observe the same counters and error map; the slot is
// vacated once every handle has been Released.
type Guard struct {
	slot    *TaskSlot
	started time.Time
	total   int64

	completed atomic.Int64

	mu     sync.Mutex
	errors map[uuid.UUID][]string

	refs atomic.Int32
}

// New installs a fresh Guard into slot, failing with a Busy error if the
// slot is already occupied.
func New(slot *TaskSlot, started time.Time, total int64) (*Guard, error) {
	g := &Guard{
		slot:    slot,
		started: started,
		total:   total,
		errors:  make(map[uuid.UUID][]string),
	}
	g.refs.Store(1)

	if err := slot.acquire(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Clone returns another handle sharing this Guard's state. Each clone must
// eventually be Released; the slot vacates once the last one is.
func (g *Guard) Clone() *Guard {
	g.refs.Add(1)
	return g
}

// Release drops a handle. Once every handle obtained from New/Clone has
// been released, the task slot is vacated.
func (g *Guard) Release() {
	if g.refs.Add(-1) == 0 {
		g.slot.vacate(g)
	}
}

// Increment atomically bumps the completed counter.
func (g *Guard) Increment() {
	g.completed.Add(1)
}

// Error appends message to id's error list and returns the new list.
func (g *Guard) Error(id uuid.UUID, message string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.errors[id] = append(g.errors[id], message)
	out := make([]string, len(g.errors[id]))
	copy(out, g.errors[id])
	return out
}

// ClearError removes id from the error map and returns an empty list.
func (g *Guard) ClearError(id uuid.UUID) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.errors, id)
	return []string{}
}

// Messages returns a snapshot of the error map.
func (g *Guard) Messages() []ObjectErrorEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	entries := make([]ObjectErrorEntry, 0, len(g.errors))
	for id, msgs := range g.errors {
		cp := make([]string, len(msgs))
		copy(cp, msgs)
		entries = append(entries, ObjectErrorEntry{ObjectID: id, Messages: cp})
	}
	return entries
}

// Started returns the operation's snapshot instant.
func (g *Guard) Started() time.Time { return g.started }

// Total returns the expected object count for this run.
func (g *Guard) Total() int64 { return g.total }

// Completed returns the number of objects processed so far.
func (g *Guard) Completed() int64 { return g.completed.Load() }
