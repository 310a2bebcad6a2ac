package objectstore

import (
	"context"

	"github.com/fstorehq/fstore/internal/blobstore"
	"github.com/fstorehq/fstore/internal/catalog"
	"github.com/fstorehq/fstore/internal/dbtools"
	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/internal/progress"
	"github.com/fstorehq/fstore/pkg/config"
)

// CurrentSchemaVersion is the schema_version this binary expects. Prepare
// fails if the catalog reports anything else.
const CurrentSchemaVersion = 1

// ObjectStore exclusively owns the catalog handle, the filesystem handle,
// and the archive path. ProgressGuards it hands out are shared with
// callers and background workers.
type ObjectStore struct {
	catalog Catalog
	fs      Filesystem
	tools   DBTools

	sqlDirectory string
	archiveRoot  string
	version      string

	archiveSlot progress.TaskSlot
	checkSlot   progress.TaskSlot
}

// New builds the catalog and filesystem handles from cfg.
func New(ctx context.Context, cfg *config.Config) (*ObjectStore, error) {
	cat, err := catalog.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	fs, err := blobstore.Open(cfg.Home)
	if err != nil {
		cat.Shutdown()
		return nil, err
	}

	return &ObjectStore{
		catalog:      cat,
		fs:           fs,
		tools:        dbtools.New(cfg.Database),
		sqlDirectory: cfg.Database.SQLDirectory,
		archiveRoot:  cfg.Archive,
		version:      cfg.Version,
	}, nil
}

// About returns static facts about the running binary.
func (s *ObjectStore) About() About {
	return About{Version: s.version}
}

// Prepare verifies the catalog's schema version matches the one this
// binary was built against.
func (s *ObjectStore) Prepare(ctx context.Context) error {
	return s.tools.VerifySchemaVersion(ctx, CurrentSchemaVersion)
}

// Init applies the full migration set to a fresh database.
func (s *ObjectStore) Init(ctx context.Context) error {
	return s.tools.Migrate(ctx, s.sqlDirectory)
}

// Migrate is an alias for Init: both apply every .sql file under
// sql_directory in lexical order. Applied files are not tracked, so every
// file runs on each call.
func (s *ObjectStore) Migrate(ctx context.Context) error {
	return s.tools.Migrate(ctx, s.sqlDirectory)
}

// Reset re-applies every migration, exactly as Migrate does. It does not
// drop existing tables or rows first.
func (s *ObjectStore) Reset(ctx context.Context) error {
	logger.Warn("resetting catalog schema", logger.Component("objectstore"))
	return s.tools.Migrate(ctx, s.sqlDirectory)
}

// Restore loads a pg_dump archive previously produced by Archive.
func (s *ObjectStore) Restore(ctx context.Context, path string) error {
	return s.tools.Restore(ctx, path)
}

// Shutdown closes the catalog's connection pool.
func (s *ObjectStore) Shutdown() {
	s.catalog.Shutdown()
}
