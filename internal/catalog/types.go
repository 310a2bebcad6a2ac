package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Bucket is a named collection of object references.
type Bucket struct {
	ID         uuid.UUID
	Name       string
	CreatedAt  time.Time
	ObjectCount int64
	SpaceUsed   int64
}

// Object is a committed, content-addressed blob with metadata.
type Object struct {
	ID        uuid.UUID
	Hash      string
	Size      int64
	Type      string
	Subtype   string
	CreatedAt time.Time
}

// ObjectError is a diagnostic record attached to an object id: the list of
// messages accumulated by the most recent stream operation.
type ObjectError struct {
	ObjectID uuid.UUID
	Messages []string
}

// StoreTotals is an aggregated snapshot of the catalog.
type StoreTotals struct {
	Buckets   int64
	Objects   int64
	SpaceUsed int64
}

// RemoveResult reports the outcome of a bulk object removal.
type RemoveResult struct {
	Removed  []uuid.UUID
	NotFound []uuid.UUID
}

// ObjectStream is a lazy, finite, non-restartable cursor over object rows
// whose creation timestamp is at or before the snapshot instant passed to
// StreamObjects. Each call to Next yields (row, true, nil), (zero, false, err),
// or (zero, false, nil) once exhausted; a non-nil error terminates the
// stream and must not be retried.
type ObjectStream interface {
	// Next advances the cursor. ok is false once the stream is exhausted.
	Next() (row Object, ok bool, err error)
	// Close releases the underlying connection. Safe to call multiple times.
	Close()
}
