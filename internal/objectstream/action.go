// Package objectstream defines the polymorphic per-object work unit that
// for_each_object dispatches to a bounded worker pool: a check of blob
// integrity, or a copy into an archive mirror.
package objectstream

import (
	"context"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/catalog"
)

// Filesystem is the narrow slice of the blob store an Action needs. It is
// satisfied by *blobstore.Store.
type Filesystem interface {
	Check(ctx context.Context, id uuid.UUID, expectedHash string) error
	Copy(ctx context.Context, id uuid.UUID, destinationRoot, hash string) error
}

// Action is cheaply cloneable and safe to invoke from many workers at
// once; it carries no per-object state of its own.
type Action interface {
	// Run performs the action against object, returning nil on success or
	// a short human-readable diagnostic on failure.
	Run(ctx context.Context, fs Filesystem, object catalog.Object) error
}
