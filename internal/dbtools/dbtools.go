// Package dbtools shells out to the PostgreSQL command-line toolchain
// (psql, pg_dump, pg_restore) for everything the store does not do over
// its own connection pool: schema migration, dump, and restore.
package dbtools

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fstorehq/fstore/internal/logger"
	"github.com/fstorehq/fstore/internal/objecterrors"
	"github.com/fstorehq/fstore/pkg/config"
)

// Tools wraps the external SQL toolchain configured for one database.
type Tools struct {
	cfg config.DatabaseConfig
}

// New returns a Tools bound to cfg's connection string and tool paths.
func New(cfg config.DatabaseConfig) *Tools {
	return &Tools{cfg: cfg}
}

func (t *Tools) run(ctx context.Context, toolCfg config.ToolConfig, args ...string) ([]byte, error) {
	fullArgs := append(append([]string{}, toolCfg.Args...), args...)

	logger.Debug("running external SQL tool", logger.Tool(toolCfg.Path))

	cmd := exec.CommandContext(ctx, toolCfg.Path, fullArgs...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, objecterrors.Internalf("dbtools: %s failed: %v: %s", toolCfg.Path, err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// Dump writes a custom-format pg_dump archive of the database to outputPath.
func (t *Tools) Dump(ctx context.Context, outputPath string) error {
	_, err := t.run(ctx, t.cfg.PgDump,
		"--dbname", t.cfg.Connection,
		"--format=custom",
		"--file", outputPath,
	)
	return err
}

// Restore loads a pg_dump archive from inputPath, dropping and recreating
// conflicting objects.
func (t *Tools) Restore(ctx context.Context, inputPath string) error {
	_, err := t.run(ctx, t.cfg.PgRestore,
		"--dbname", t.cfg.Connection,
		"--clean",
		"--if-exists",
		inputPath,
	)
	return err
}

// RunSQLFile executes a single .sql file against the database via psql.
func (t *Tools) RunSQLFile(ctx context.Context, path string) error {
	logger.Info("running SQL file", logger.SQLFile(path))

	_, err := t.run(ctx, t.cfg.Psql,
		"--dbname", t.cfg.Connection,
		"--file", path,
		"--set", "ON_ERROR_STOP=1",
	)
	return err
}

// SchemaVersion reads the single row of the schema_version table.
func (t *Tools) SchemaVersion(ctx context.Context) (int, error) {
	out, err := t.run(ctx, t.cfg.Psql,
		"--dbname", t.cfg.Connection,
		"--tuples-only",
		"--no-align",
		"--command", "SELECT version FROM schema_version",
	)
	if err != nil {
		return 0, err
	}

	version, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, objecterrors.Internalf("dbtools: unexpected schema_version output %q: %v", out, err)
	}
	return version, nil
}

// VerifySchemaVersion fails with Internal if the catalog's schema version
// does not match want.
func (t *Tools) VerifySchemaVersion(ctx context.Context, want int) error {
	got, err := t.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if got != want {
		return objecterrors.Internalf("dbtools: schema version %d does not match expected %d", got, want)
	}
	return nil
}
