package objectstore

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/blobstore"
	"github.com/fstorehq/fstore/internal/catalog"
	"github.com/fstorehq/fstore/internal/objecterrors"
)

// AddBucket creates a new, empty bucket.
func (s *ObjectStore) AddBucket(ctx context.Context, name string) (catalog.Bucket, error) {
	return s.catalog.CreateBucket(ctx, name)
}

// CloneBucket creates a new bucket sharing the original's object set.
func (s *ObjectStore) CloneBucket(ctx context.Context, originalID uuid.UUID, newName string) (catalog.Bucket, error) {
	return s.catalog.CloneBucket(ctx, originalID, newName)
}

// GetBucket returns the bucket with the given name.
func (s *ObjectStore) GetBucket(ctx context.Context, name string) (catalog.Bucket, error) {
	return s.catalog.FetchBucket(ctx, name)
}

// GetBuckets returns every bucket in the catalog.
func (s *ObjectStore) GetBuckets(ctx context.Context) ([]catalog.Bucket, error) {
	return s.catalog.FetchBucketsAll(ctx)
}

// RenameBucket renames the given bucket.
func (s *ObjectStore) RenameBucket(ctx context.Context, id uuid.UUID, newName string) (catalog.Bucket, error) {
	return s.catalog.RenameBucket(ctx, id, newName)
}

// RemoveBucket deletes a bucket and its membership rows.
func (s *ObjectStore) RemoveBucket(ctx context.Context, id uuid.UUID) error {
	return s.catalog.RemoveBucket(ctx, id)
}

// GetAllObjects returns every object row, regardless of bucket.
func (s *ObjectStore) GetAllObjects(ctx context.Context) ([]catalog.Object, error) {
	return s.catalog.GetAllObjects(ctx)
}

// GetObjects returns the objects in bucketID matching the given ids (or
// every object in the bucket when ids is empty).
func (s *ObjectStore) GetObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) ([]catalog.Object, error) {
	return s.catalog.GetObjects(ctx, bucketID, ids)
}

// GetObjectMetadata returns a single object's catalog row, scoped to
// bucketID. NotFound if the object does not exist or is not a member of
// that bucket.
func (s *ObjectStore) GetObjectMetadata(ctx context.Context, bucketID, id uuid.UUID) (catalog.Object, error) {
	objects, err := s.catalog.GetObjects(ctx, bucketID, []uuid.UUID{id})
	if err != nil {
		return catalog.Object{}, err
	}
	if len(objects) == 0 {
		return catalog.Object{}, objecterrors.NotFoundf("object %s not found in bucket %s", id, bucketID)
	}
	return objects[0], nil
}

// GetObject opens a committed blob's byte stream. The caller must close it.
func (s *ObjectStore) GetObject(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	return s.fs.Object(ctx, id)
}

// GetPart returns a writable handle onto a staging file.
func (s *ObjectStore) GetPart(ctx context.Context, id uuid.UUID) (*blobstore.Part, error) {
	return s.fs.Part(ctx, id)
}

// RemoveObject removes id's membership in bucketID, NotFound if absent.
func (s *ObjectStore) RemoveObject(ctx context.Context, bucketID, id uuid.UUID) (catalog.Object, error) {
	return s.catalog.RemoveObject(ctx, bucketID, id)
}

// RemoveObjects removes each id's membership in bucketID, reporting which
// were actually removed vs. not found.
func (s *ObjectStore) RemoveObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) (catalog.RemoveResult, error) {
	return s.catalog.RemoveObjects(ctx, bucketID, ids)
}

// GetTotals returns an aggregated snapshot of the catalog.
func (s *ObjectStore) GetTotals(ctx context.Context) (catalog.StoreTotals, error) {
	return s.catalog.FetchStoreTotals(ctx)
}

// GetObjectErrors returns the diagnostic record for a single object.
func (s *ObjectStore) GetObjectErrors(ctx context.Context, id uuid.UUID) (catalog.ObjectError, error) {
	return s.catalog.GetObjectErrors(ctx, id)
}
