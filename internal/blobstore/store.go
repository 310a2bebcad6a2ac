// Package blobstore is a content-addressed blob filesystem. It stores
// committed objects and in-progress upload parts under a configured root
// directory and has no knowledge of the metadata catalog: every operation
// is addressed purely by id.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

// Store is a filesystem-backed blob store rooted at Home. Committed blobs
// live under Home/objects, staged parts under Home/parts.
type Store struct {
	mu   sync.Mutex
	home string
}

// Open roots a Store at home, creating the objects and parts directories
// if absent.
func Open(home string) (*Store, error) {
	if home == "" {
		return nil, objecterrors.InvalidInputf("blobstore: home directory is required")
	}

	for _, dir := range []string{objectsRoot(home), partsRoot(home)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, objecterrors.Internalf("blobstore: create %s: %v", dir, err)
		}
	}

	return &Store{home: home}, nil
}

func objectsRoot(home string) string { return filepath.Join(home, "objects") }
func partsRoot(home string) string   { return filepath.Join(home, "parts") }

// objectPath derives the on-disk path for an object id. Ids are sharded
// two levels deep by their leading hex characters so no single directory
// accumulates every blob in the store.
func objectPath(root string, id uuid.UUID) string {
	s := id.String()
	return filepath.Join(root, s[0:2], s[2:4], s)
}

func partPath(home string, id uuid.UUID) string {
	return filepath.Join(partsRoot(home), id.String())
}

// Part returns a handle to a staging file named by id, creating it and any
// parent directories if absent. Writes to the returned handle are
// append-only.
func (s *Store) Part(ctx context.Context, id uuid.UUID) (*Part, error) {
	path := partPath(s.home, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, objecterrors.Internalf("blobstore: part %s: %v", id, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, objecterrors.Internalf("blobstore: part %s: %v", id, err)
	}

	return &Part{ID: id, file: f}, nil
}

// Part is a writable handle onto a staging file.
type Part struct {
	ID   uuid.UUID
	file *os.File
}

// Write appends to the part.
func (p *Part) Write(b []byte) (int, error) { return p.file.Write(b) }

// Close releases the underlying file descriptor without discarding the
// staged bytes.
func (p *Part) Close() error { return p.file.Close() }

// CommitResult is the metadata derived by Commit.
type CommitResult struct {
	ID      uuid.UUID
	Hash    string
	Size    int64
	Type    string
	Subtype string
}

// Commit finalizes a staged part: it computes the content hash, sniffs the
// MIME type from content, allocates a fresh object id, and renames the
// staged file into its content-addressed final path.
func (s *Store) Commit(ctx context.Context, partID uuid.UUID) (CommitResult, error) {
	path := partPath(s.home, partID)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return CommitResult{}, objecterrors.NotFoundf("blobstore: part %s not found", partID)
		}
		return CommitResult{}, objecterrors.Internalf("blobstore: stat part %s: %v", partID, err)
	}
	if info.Size() < 0 {
		return CommitResult{}, objecterrors.InvalidInputf("blobstore: part %s has negative size", partID)
	}

	hash, size, err := hashFile(path)
	if err != nil {
		return CommitResult{}, objecterrors.Internalf("blobstore: hash part %s: %v", partID, err)
	}

	typ, subtype, err := sniffMIME(path)
	if err != nil {
		return CommitResult{}, objecterrors.Internalf("blobstore: sniff part %s: %v", partID, err)
	}

	id := uuid.New()
	dest := objectPath(objectsRoot(s.home), id)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return CommitResult{}, objecterrors.Internalf("blobstore: commit %s: %v", partID, err)
	}

	s.mu.Lock()
	err = os.Rename(path, dest)
	s.mu.Unlock()
	if err != nil {
		return CommitResult{}, objecterrors.Internalf("blobstore: commit %s: %v", partID, err)
	}

	return CommitResult{ID: id, Hash: hash, Size: size, Type: typ, Subtype: subtype}, nil
}

// Object opens a committed blob for reading. The caller must close it.
func (s *Store) Object(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	f, err := os.Open(objectPath(objectsRoot(s.home), id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, objecterrors.NotFoundf("blobstore: object %s not found", id)
		}
		return nil, objecterrors.Internalf("blobstore: open object %s: %v", id, err)
	}
	return f, nil
}

// RemoveObjects deletes the blob files for the given ids. Missing files are
// tolerated to keep the operation idempotent.
func (s *Store) RemoveObjects(ctx context.Context, ids []uuid.UUID) error {
	root := objectsRoot(s.home)
	for _, id := range ids {
		path := objectPath(root, id)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return objecterrors.Internalf("blobstore: remove object %s: %v", id, err)
		}
		cleanEmptyDirs(root, filepath.Dir(path))
	}
	return nil
}

// cleanEmptyDirs removes now-empty shard directories up to (not including)
// root, stopping at the first non-empty one.
func cleanEmptyDirs(root, dir string) {
	for dir != root && len(dir) > len(root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// Check re-reads the blob for id, recomputes its hash, and reports a short
// diagnostic message if the blob is missing, unreadable, or mismatched.
// A nil return means the blob is present and intact.
func (s *Store) Check(ctx context.Context, id uuid.UUID, expectedHash string) error {
	path := objectPath(objectsRoot(s.home), id)

	hash, _, err := hashFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blob missing")
		}
		return fmt.Errorf("blob unreadable: %v", err)
	}

	if hash != expectedHash {
		return fmt.Errorf("hash mismatch: expected %s got %s", expectedHash, hash)
	}
	return nil
}

// Copy mirrors the blob for id into destinationRoot under the same
// sharded relative path, skipping the copy if a byte-identical file is
// already there.
func (s *Store) Copy(ctx context.Context, id uuid.UUID, destinationRoot, hash string) error {
	src := objectPath(objectsRoot(s.home), id)
	dst := objectPath(destinationRoot, id)

	if existingHash, _, err := hashFile(dst); err == nil && existingHash == hash {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create archive directory: %v", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source blob: %v", err)
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create archive tmp file: %v", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy blob: %v", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("copy blob: %v", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize archive copy: %v", err)
	}
	return nil
}

// RemoveExtraneous deletes files under destinationRoot that have no
// corresponding blob under the primary objects root. Files ending in .tmp
// are left in place.
func (s *Store) RemoveExtraneous(ctx context.Context, destinationRoot string) error {
	root := objectsRoot(s.home)

	if _, err := os.Stat(destinationRoot); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(destinationRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".tmp" {
			return nil
		}

		rel, err := filepath.Rel(destinationRoot, path)
		if err != nil {
			return err
		}

		if _, err := os.Stat(filepath.Join(root, rel)); errors.Is(err, os.ErrNotExist) {
			if err := os.Remove(path); err != nil {
				return err
			}
			cleanEmptyDirs(destinationRoot, filepath.Dir(path))
		}
		return nil
	})
}

// Home returns the store's root directory.
func (s *Store) Home() string { return s.home }
