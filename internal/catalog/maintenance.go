package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

// FetchStoreTotals returns an aggregated snapshot of the catalog.
func (c *Catalog) FetchStoreTotals(ctx context.Context) (StoreTotals, error) {
	row := c.queryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM buckets) AS buckets,
			(SELECT COUNT(*) FROM objects) AS objects,
			(SELECT COALESCE(SUM(size), 0) FROM objects) AS space_used
	`)

	var t StoreTotals
	if err := row.Scan(&t.Buckets, &t.Objects, &t.SpaceUsed); err != nil {
		return StoreTotals{}, mapPgError(err, "fetch_store_totals")
	}
	return t, nil
}

// GetErrors returns the full object-error log.
func (c *Catalog) GetErrors(ctx context.Context) ([]ObjectError, error) {
	rows, err := c.query(ctx, `SELECT object_id, messages FROM object_errors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []ObjectError
	for rows.Next() {
		var oe ObjectError
		var raw []byte
		if err := rows.Scan(&oe.ObjectID, &raw); err != nil {
			return nil, mapPgError(err, "get_errors")
		}
		if err := json.Unmarshal(raw, &oe.Messages); err != nil {
			return nil, objecterrors.Internalf("get_errors: decode messages for %s: %v", oe.ObjectID, err)
		}
		errs = append(errs, oe)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "get_errors")
	}
	return errs, nil
}

// GetObjectErrors returns the error entry for a single object, or NotFound
// if it has none.
func (c *Catalog) GetObjectErrors(ctx context.Context, id uuid.UUID) (ObjectError, error) {
	row := c.queryRow(ctx, `SELECT object_id, messages FROM object_errors WHERE object_id = $1`, id)

	var oe ObjectError
	var raw []byte
	if err := row.Scan(&oe.ObjectID, &raw); err != nil {
		return ObjectError{}, mapPgError(err, "get_object_errors")
	}
	if err := json.Unmarshal(raw, &oe.Messages); err != nil {
		return ObjectError{}, objecterrors.Internalf("get_object_errors: decode messages for %s: %v", id, err)
	}
	return oe, nil
}

// UpdateObjectErrors bulk upserts/replaces the error list for each object
// id in entries. An empty Messages slice clears that object's record.
func (c *Catalog) UpdateObjectErrors(ctx context.Context, entries []ObjectError) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := c.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if len(e.Messages) == 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM object_errors WHERE object_id = $1`, e.ObjectID); err != nil {
				return mapPgError(err, "update_object_errors")
			}
			continue
		}

		raw, err := json.Marshal(e.Messages)
		if err != nil {
			return objecterrors.Internalf("update_object_errors: encode messages for %s: %v", e.ObjectID, err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO object_errors (object_id, messages) VALUES ($1, $2)
			ON CONFLICT (object_id) DO UPDATE SET messages = EXCLUDED.messages
		`, e.ObjectID, raw); err != nil {
			return mapPgError(err, "update_object_errors")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "update_object_errors")
	}
	return nil
}

// GetObjectCount returns the number of objects whose creation timestamp is
// at or before asOf. Used to size a progress bar for a stable snapshot.
func (c *Catalog) GetObjectCount(ctx context.Context, asOf time.Time) (int, error) {
	row := c.queryRow(ctx, `SELECT COUNT(*) FROM objects WHERE created_at <= $1`, asOf)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, mapPgError(err, "get_object_count")
	}
	return n, nil
}

// StreamObjects opens a lazy, server-side cursor over objects whose
// creation timestamp is at or before asOf, ordered by id. The returned
// stream is finite and not restartable: each call to Next advances it.
func (c *Catalog) StreamObjects(ctx context.Context, asOf time.Time) (ObjectStream, error) {
	rows, err := c.query(ctx, `
		SELECT id, hash, size, type, subtype, created_at
		FROM objects WHERE created_at <= $1 ORDER BY id
	`, asOf)
	if err != nil {
		return nil, err
	}
	return &objectStream{rows: rows}, nil
}

type objectStream struct {
	rows pgx.Rows
}

func (s *objectStream) Next() (Object, bool, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return Object{}, false, mapPgError(err, "stream_objects")
		}
		return Object{}, false, nil
	}

	var obj Object
	if err := s.rows.Scan(&obj.ID, &obj.Hash, &obj.Size, &obj.Type, &obj.Subtype, &obj.CreatedAt); err != nil {
		return Object{}, false, mapPgError(err, "stream_objects")
	}
	return obj, true, nil
}

func (s *objectStream) Close() {
	s.rows.Close()
}

// Tx is a transaction handle exposing the multi-step maintenance
// operations that must run atomically.
type Tx struct {
	tx pgx.Tx
}

// Begin starts a transaction for maintenance operations (currently just
// prune's remove-orphans-then-commit sequence).
func (c *Catalog) Begin(ctx context.Context) (*Tx, error) {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return mapPgError(err, "commit")
	}
	return nil
}

// Rollback rolls back the transaction. Safe to call after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// RemoveOrphanObjects deletes and returns all object rows with zero bucket
// memberships. It does not touch the filesystem; the caller (ObjectStore)
// removes the corresponding blobs before committing the transaction.
func (t *Tx) RemoveOrphanObjects(ctx context.Context) ([]Object, error) {
	rows, err := t.tx.Query(ctx, `
		DELETE FROM objects o
		WHERE NOT EXISTS (SELECT 1 FROM bucket_objects bo WHERE bo.object_id = o.id)
		RETURNING o.id, o.hash, o.size, o.type, o.subtype, o.created_at
	`)
	if err != nil {
		return nil, mapPgError(err, "remove_orphan_objects")
	}
	defer rows.Close()

	return scanObjects(rows, "remove_orphan_objects")
}
