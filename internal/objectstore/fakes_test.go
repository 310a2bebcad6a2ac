package objectstore

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/blobstore"
	"github.com/fstorehq/fstore/internal/catalog"
	"github.com/fstorehq/fstore/internal/objecterrors"
)

// fakeCatalog implements the Catalog interface over an in-memory object
// set, enough to exercise forEachObject and the pass-through operations
// without a real database.
type fakeCatalog struct {
	mu         sync.Mutex
	objects    []catalog.Object
	membership map[uuid.UUID][]uuid.UUID // bucketID -> member object ids
	errors     map[uuid.UUID][]string

	streamErr  error
	updateCall []catalog.ObjectError
	updateErr  error
}

func newFakeCatalog(objects ...catalog.Object) *fakeCatalog {
	return &fakeCatalog{
		objects:    objects,
		membership: make(map[uuid.UUID][]uuid.UUID),
		errors:     make(map[uuid.UUID][]string),
	}
}

// addMembership registers objectID as a member of bucketID, for tests that
// exercise bucket-scoped lookups.
func (f *fakeCatalog) addMembership(bucketID, objectID uuid.UUID) {
	f.membership[bucketID] = append(f.membership[bucketID], objectID)
}

func (f *fakeCatalog) CreateBucket(ctx context.Context, name string) (catalog.Bucket, error) {
	return catalog.Bucket{Name: name}, nil
}
func (f *fakeCatalog) CloneBucket(ctx context.Context, originalID uuid.UUID, newName string) (catalog.Bucket, error) {
	return catalog.Bucket{Name: newName}, nil
}
func (f *fakeCatalog) FetchBucket(ctx context.Context, name string) (catalog.Bucket, error) {
	return catalog.Bucket{Name: name}, nil
}
func (f *fakeCatalog) FetchBucketByID(ctx context.Context, id uuid.UUID) (catalog.Bucket, error) {
	return catalog.Bucket{ID: id}, nil
}
func (f *fakeCatalog) FetchBucketsAll(ctx context.Context) ([]catalog.Bucket, error) { return nil, nil }
func (f *fakeCatalog) RenameBucket(ctx context.Context, id uuid.UUID, newName string) (catalog.Bucket, error) {
	return catalog.Bucket{ID: id, Name: newName}, nil
}
func (f *fakeCatalog) RemoveBucket(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeCatalog) AddObject(ctx context.Context, bucketID, id uuid.UUID, hash string, size int64, typ, subtype string) (catalog.Object, error) {
	obj := catalog.Object{ID: id, Hash: hash, Size: size, Type: typ, Subtype: subtype}
	f.objects = append(f.objects, obj)
	f.addMembership(bucketID, id)
	return obj, nil
}

// bucketMembers returns the subset of f.objects that belong to bucketID. If
// bucketID has no recorded membership at all (the zero-setup case most
// existing tests rely on), every object is treated as a member so tests
// that don't care about bucket scoping keep working unchanged.
func (f *fakeCatalog) bucketMembers(bucketID uuid.UUID) []catalog.Object {
	if len(f.membership) == 0 {
		return f.objects
	}
	members := f.membership[bucketID]
	out := make([]catalog.Object, 0, len(members))
	for _, o := range f.objects {
		for _, id := range members {
			if o.ID == id {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func (f *fakeCatalog) GetBucketObjects(ctx context.Context, bucketID uuid.UUID) ([]catalog.Object, error) {
	return f.bucketMembers(bucketID), nil
}
func (f *fakeCatalog) GetObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) ([]catalog.Object, error) {
	members := f.bucketMembers(bucketID)
	if len(ids) == 0 {
		return members, nil
	}
	out := make([]catalog.Object, 0, len(ids))
	for _, o := range members {
		for _, id := range ids {
			if o.ID == id {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}
func (f *fakeCatalog) GetAllObjects(ctx context.Context) ([]catalog.Object, error) {
	return f.objects, nil
}
func (f *fakeCatalog) GetObject(ctx context.Context, id uuid.UUID) (catalog.Object, error) {
	for _, o := range f.objects {
		if o.ID == id {
			return o, nil
		}
	}
	return catalog.Object{}, objecterrors.NotFoundf("object %s not found", id)
}
func (f *fakeCatalog) RemoveObject(ctx context.Context, bucketID, id uuid.UUID) (catalog.Object, error) {
	return f.GetObject(ctx, id)
}
func (f *fakeCatalog) RemoveObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) (catalog.RemoveResult, error) {
	return catalog.RemoveResult{Removed: ids}, nil
}

func (f *fakeCatalog) FetchStoreTotals(ctx context.Context) (catalog.StoreTotals, error) {
	return catalog.StoreTotals{Objects: int64(len(f.objects))}, nil
}
func (f *fakeCatalog) GetErrors(ctx context.Context) ([]catalog.ObjectError, error) { return nil, nil }
func (f *fakeCatalog) GetObjectErrors(ctx context.Context, id uuid.UUID) (catalog.ObjectError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return catalog.ObjectError{ObjectID: id, Messages: f.errors[id]}, nil
}
func (f *fakeCatalog) UpdateObjectErrors(ctx context.Context, entries []catalog.ObjectError) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCall = append(f.updateCall, entries...)
	for _, e := range entries {
		if len(e.Messages) == 0 {
			delete(f.errors, e.ObjectID)
		} else {
			f.errors[e.ObjectID] = e.Messages
		}
	}
	return f.updateErr
}
func (f *fakeCatalog) GetObjectCount(ctx context.Context, asOf time.Time) (int, error) {
	return len(f.objects), nil
}
func (f *fakeCatalog) StreamObjects(ctx context.Context, asOf time.Time) (catalog.ObjectStream, error) {
	return &fakeStream{objects: f.objects, err: f.streamErr}, nil
}
func (f *fakeCatalog) Begin(ctx context.Context) (*catalog.Tx, error) { return nil, nil }
func (f *fakeCatalog) Shutdown()                                     {}

type fakeStream struct {
	objects []catalog.Object
	idx     int
	err     error
}

func (s *fakeStream) Next() (catalog.Object, bool, error) {
	if s.err != nil {
		return catalog.Object{}, false, s.err
	}
	if s.idx >= len(s.objects) {
		return catalog.Object{}, false, nil
	}
	o := s.objects[s.idx]
	s.idx++
	return o, true, nil
}
func (s *fakeStream) Close() {}

// fakeFilesystem implements the Filesystem interface with per-id scripted
// outcomes for Check/Copy.
type fakeFilesystem struct {
	mu        sync.Mutex
	checkErrs map[uuid.UUID]error
	copyErrs  map[uuid.UUID]error
	checked   []uuid.UUID
	copied    []uuid.UUID
}

func newFakeFilesystem() *fakeFilesystem {
	return &fakeFilesystem{checkErrs: map[uuid.UUID]error{}, copyErrs: map[uuid.UUID]error{}}
}

func (f *fakeFilesystem) Part(ctx context.Context, id uuid.UUID) (*blobstore.Part, error) {
	return nil, nil
}
func (f *fakeFilesystem) Commit(ctx context.Context, partID uuid.UUID) (blobstore.CommitResult, error) {
	return blobstore.CommitResult{}, nil
}
func (f *fakeFilesystem) Object(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	return nil, nil
}
func (f *fakeFilesystem) RemoveObjects(ctx context.Context, ids []uuid.UUID) error { return nil }
func (f *fakeFilesystem) Check(ctx context.Context, id uuid.UUID, expectedHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, id)
	return f.checkErrs[id]
}
func (f *fakeFilesystem) Copy(ctx context.Context, id uuid.UUID, destinationRoot, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copied = append(f.copied, id)
	return f.copyErrs[id]
}
func (f *fakeFilesystem) RemoveExtraneous(ctx context.Context, destinationRoot string) error {
	return nil
}

// fakeFilesystemCommit additionally scripts Commit for CommitPart tests.
type fakeFilesystemCommit struct {
	fakeFilesystem
	commitResult blobstore.CommitResult
	commitErr    error
}

func (f *fakeFilesystemCommit) Commit(ctx context.Context, partID uuid.UUID) (blobstore.CommitResult, error) {
	return f.commitResult, f.commitErr
}

// fakeDBTools implements the DBTools interface with scripted outcomes.
type fakeDBTools struct {
	dumpErr    error
	restoreErr error
	migrateErr error
	verifyErr  error

	dumpPath    string
	restorePath string
	migrateDir  string
}

func (f *fakeDBTools) Dump(ctx context.Context, outputPath string) error {
	f.dumpPath = outputPath
	return f.dumpErr
}
func (f *fakeDBTools) Restore(ctx context.Context, inputPath string) error {
	f.restorePath = inputPath
	return f.restoreErr
}
func (f *fakeDBTools) Migrate(ctx context.Context, dir string) error {
	f.migrateDir = dir
	return f.migrateErr
}
func (f *fakeDBTools) VerifySchemaVersion(ctx context.Context, want int) error { return f.verifyErr }
