package objectstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/catalog"
	"github.com/fstorehq/fstore/internal/logger"
)

// CommitPart finalizes a staged part into a committed object and links it
// into bucketID. If the blob commits but the catalog insert fails, the
// committed blob is orphaned until the next Prune.
func (s *ObjectStore) CommitPart(ctx context.Context, bucketID, partID uuid.UUID) (catalog.Object, error) {
	result, err := s.fs.Commit(ctx, partID)
	if err != nil {
		return catalog.Object{}, err
	}

	obj, err := s.catalog.AddObject(ctx, bucketID, result.ID, result.Hash, result.Size, result.Type, result.Subtype)
	if err != nil {
		logger.Warn("committed blob orphaned: catalog insert failed",
			logger.ObjectID(result.ID), logger.BucketID(bucketID), logger.Err(err))
		return catalog.Object{}, err
	}
	return obj, nil
}

// Prune removes every object with zero bucket memberships, deleting the
// catalog rows first and the blob files second. If the filesystem removal
// fails, the transaction is left uncommitted so the rows (and the
// opportunity to retry) survive.
func (s *ObjectStore) Prune(ctx context.Context) ([]catalog.Object, error) {
	tx, err := s.catalog.Begin(ctx)
	if err != nil {
		return nil, err
	}

	orphans, err := tx.RemoveOrphanObjects(ctx)
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	if len(orphans) == 0 {
		return orphans, tx.Commit(ctx)
	}

	ids := make([]uuid.UUID, len(orphans))
	for i, o := range orphans {
		ids[i] = o.ID
	}

	if err := s.fs.RemoveObjects(ctx, ids); err != nil {
		tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return orphans, nil
}
