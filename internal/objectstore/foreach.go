package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/fstorehq/fstore/internal/catalog"
	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/internal/objecterrors"
	"github.com/fstorehq/fstore/internal/objectstream"
	"github.com/fstorehq/fstore/internal/progress"
)

// Archive snapshots the catalog, dumps the database, mirrors every blob
// into the configured archive directory, and prunes stale archive blobs.
// It fails with Internal if no archive location is configured. The caller
// receives its own guard handle and must Release it after reading from
// done.
func (s *ObjectStore) Archive(ctx context.Context) (*progress.Guard, <-chan error, error) {
	if s.archiveRoot == "" {
		return nil, nil, objecterrors.Internalf("objectstore: archive: no archive location configured")
	}

	started := time.Now()
	total, err := s.catalog.GetObjectCount(ctx, started)
	if err != nil {
		return nil, nil, err
	}

	guard, err := progress.New(&s.archiveSlot, started, int64(total))
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(s.archiveRoot, 0o755); err != nil {
		guard.Release()
		return nil, nil, objecterrors.Internalf("objectstore: archive: create %s: %v", s.archiveRoot, err)
	}

	dumpPath := filepath.Join(s.archiveRoot, "fstore.dump")
	if err := s.tools.Dump(ctx, dumpPath); err != nil {
		guard.Release()
		return nil, nil, err
	}

	if err := s.fs.RemoveExtraneous(ctx, s.archiveRoot); err != nil {
		guard.Release()
		return nil, nil, err
	}

	worker := guard.Clone()
	done := make(chan error, 1)
	go func() {
		defer worker.Release()
		done <- s.forEachObject(ctx, worker, objectstream.SyncAction{ArchiveRoot: s.archiveRoot})
	}()

	return guard, done, nil
}

// Check verifies every blob's integrity against its catalog hash, without
// touching the archive location.
func (s *ObjectStore) Check(ctx context.Context) (*progress.Guard, <-chan error, error) {
	started := time.Now()
	total, err := s.catalog.GetObjectCount(ctx, started)
	if err != nil {
		return nil, nil, err
	}

	guard, err := progress.New(&s.checkSlot, started, int64(total))
	if err != nil {
		return nil, nil, err
	}

	worker := guard.Clone()
	done := make(chan error, 1)
	go func() {
		defer worker.Release()
		done <- s.forEachObject(ctx, worker, objectstream.CheckAction{})
	}()

	return guard, done, nil
}

// forEachObject streams every object at guard.Started()'s snapshot through
// action, bounded to runtime.NumCPU() concurrent workers. Each worker's
// outcome is flushed to the catalog immediately (regardless of whether the
// message list is empty, so a recovered object's stale error row is
// cleared as soon as its worker finishes, not just at the final flush);
// flush failures are logged, never returned. A stream error stops
// dispatch but does not cancel in-flight workers.
func (s *ObjectStore) forEachObject(ctx context.Context, guard *progress.Guard, action objectstream.Action) error {
	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))

	stream, err := s.catalog.StreamObjects(ctx, guard.Started())
	if err != nil {
		return err
	}
	defer stream.Close()

	var wg sync.WaitGroup
	var streamErr error

	for {
		row, ok, err := stream.Next()
		if err != nil {
			streamErr = err
			break
		}
		if !ok {
			break
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			streamErr = err
			break
		}

		wg.Add(1)
		go func(object catalog.Object) {
			defer wg.Done()
			defer sem.Release(1)

			var messages []string
			if runErr := action.Run(ctx, s.fs, object); runErr != nil {
				messages = guard.Error(object.ID, runErr.Error())
			} else {
				messages = guard.ClearError(object.ID)
			}
			guard.Increment()

			flushErr := s.catalog.UpdateObjectErrors(ctx, []catalog.ObjectError{
				{ObjectID: object.ID, Messages: messages},
			})
			if flushErr != nil {
				logger.Warn("failed to flush object error state",
					logger.ObjectID(object.ID), logger.Err(flushErr))
			}
		}(row)
	}

	wg.Wait()

	entries := guard.Messages()
	final := make([]catalog.ObjectError, len(entries))
	for i, e := range entries {
		final[i] = catalog.ObjectError{ObjectID: e.ObjectID, Messages: e.Messages}
	}
	if len(final) > 0 {
		if err := s.catalog.UpdateObjectErrors(ctx, final); err != nil {
			logger.Warn("failed to flush final object error snapshot", logger.Err(err))
		}
	}

	return streamErr
}
