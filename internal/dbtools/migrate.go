package dbtools

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

// Migrate applies every .sql file under dir in lexical order. Migration
// files are expected to be named so that sort order is application order
// (e.g. 0001_init.sql, 0002_add_index.sql).
func (t *Tools) Migrate(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return objecterrors.Internalf("dbtools: read migrations directory %s: %v", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		if err := t.RunSQLFile(ctx, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
