// Package objectstore is the composition root: the public API that
// orchestrates the metadata catalog, the blob filesystem, and the
// progress/error-accumulation model under a bounded scheduler.
package objectstore

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/blobstore"
	"github.com/fstorehq/fstore/internal/catalog"
)

// Catalog is the metadata-catalog dependency of an ObjectStore. Satisfied
// by *catalog.Catalog; narrowed to an interface so orchestration logic can
// be tested against a fake.
type Catalog interface {
	CreateBucket(ctx context.Context, name string) (catalog.Bucket, error)
	CloneBucket(ctx context.Context, originalID uuid.UUID, newName string) (catalog.Bucket, error)
	FetchBucket(ctx context.Context, name string) (catalog.Bucket, error)
	FetchBucketByID(ctx context.Context, id uuid.UUID) (catalog.Bucket, error)
	FetchBucketsAll(ctx context.Context) ([]catalog.Bucket, error)
	RenameBucket(ctx context.Context, id uuid.UUID, newName string) (catalog.Bucket, error)
	RemoveBucket(ctx context.Context, id uuid.UUID) error

	AddObject(ctx context.Context, bucketID, id uuid.UUID, hash string, size int64, typ, subtype string) (catalog.Object, error)
	GetBucketObjects(ctx context.Context, bucketID uuid.UUID) ([]catalog.Object, error)
	GetObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) ([]catalog.Object, error)
	GetAllObjects(ctx context.Context) ([]catalog.Object, error)
	GetObject(ctx context.Context, id uuid.UUID) (catalog.Object, error)
	RemoveObject(ctx context.Context, bucketID, id uuid.UUID) (catalog.Object, error)
	RemoveObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) (catalog.RemoveResult, error)

	FetchStoreTotals(ctx context.Context) (catalog.StoreTotals, error)
	GetErrors(ctx context.Context) ([]catalog.ObjectError, error)
	GetObjectErrors(ctx context.Context, id uuid.UUID) (catalog.ObjectError, error)
	UpdateObjectErrors(ctx context.Context, entries []catalog.ObjectError) error
	GetObjectCount(ctx context.Context, asOf time.Time) (int, error)
	StreamObjects(ctx context.Context, asOf time.Time) (catalog.ObjectStream, error)
	Begin(ctx context.Context) (*catalog.Tx, error)

	Shutdown()
}

// Filesystem is the blob-store dependency of an ObjectStore. Satisfied by
// *blobstore.Store.
type Filesystem interface {
	Part(ctx context.Context, id uuid.UUID) (*blobstore.Part, error)
	Commit(ctx context.Context, partID uuid.UUID) (blobstore.CommitResult, error)
	Object(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	RemoveObjects(ctx context.Context, ids []uuid.UUID) error
	Check(ctx context.Context, id uuid.UUID, expectedHash string) error
	Copy(ctx context.Context, id uuid.UUID, destinationRoot, hash string) error
	RemoveExtraneous(ctx context.Context, destinationRoot string) error
}

// DBTools is the external SQL toolchain dependency.
type DBTools interface {
	Dump(ctx context.Context, outputPath string) error
	Restore(ctx context.Context, inputPath string) error
	Migrate(ctx context.Context, dir string) error
	VerifySchemaVersion(ctx context.Context, want int) error
}

// About holds static facts about the running binary.
type About struct {
	Version string
}
