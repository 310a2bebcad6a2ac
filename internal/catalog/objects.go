package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

// AddObject inserts or links an object row and a bucket membership row in
// one transaction. If an object with this id already exists (re-commit of
// the same part is not expected, but a caller-supplied id might collide),
// the insert fails with InvalidInput.
func (c *Catalog) AddObject(ctx context.Context, bucketID, id uuid.UUID, hash string, size int64, typ, subtype string) (Object, error) {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return Object{}, err
	}
	defer tx.Rollback(ctx)

	var obj Object
	row := tx.QueryRow(ctx, `
		INSERT INTO objects (id, hash, size, type, subtype)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, hash, size, type, subtype, created_at
	`, id, hash, size, typ, subtype)
	if err := row.Scan(&obj.ID, &obj.Hash, &obj.Size, &obj.Type, &obj.Subtype, &obj.CreatedAt); err != nil {
		return Object{}, mapPgError(err, "add_object")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bucket_objects (bucket_id, object_id) VALUES ($1, $2)
	`, bucketID, id); err != nil {
		return Object{}, mapPgError(err, "add_object")
	}

	if err := tx.Commit(ctx); err != nil {
		return Object{}, mapPgError(err, "add_object")
	}
	return obj, nil
}

// GetBucketObjects returns every object belonging to bucketID.
func (c *Catalog) GetBucketObjects(ctx context.Context, bucketID uuid.UUID) ([]Object, error) {
	rows, err := c.query(ctx, `
		SELECT o.id, o.hash, o.size, o.type, o.subtype, o.created_at
		FROM objects o
		JOIN bucket_objects bo ON bo.object_id = o.id
		WHERE bo.bucket_id = $1
		ORDER BY o.created_at
	`, bucketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanObjects(rows, "get_bucket_objects")
}

// GetObjects returns the objects in bucketID matching the given ids.
// A nil/empty ids slice returns every object in the bucket.
func (c *Catalog) GetObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) ([]Object, error) {
	if len(ids) == 0 {
		return c.GetBucketObjects(ctx, bucketID)
	}

	rows, err := c.query(ctx, `
		SELECT o.id, o.hash, o.size, o.type, o.subtype, o.created_at
		FROM objects o
		JOIN bucket_objects bo ON bo.object_id = o.id
		WHERE bo.bucket_id = $1 AND o.id = ANY($2)
		ORDER BY o.created_at
	`, bucketID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanObjects(rows, "get_objects")
}

// GetAllObjects returns every object row in the catalog, regardless of
// bucket membership.
func (c *Catalog) GetAllObjects(ctx context.Context) ([]Object, error) {
	rows, err := c.query(ctx, `
		SELECT id, hash, size, type, subtype, created_at FROM objects ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanObjects(rows, "get_all_objects")
}

// GetObject returns a single object row by id, regardless of bucket.
func (c *Catalog) GetObject(ctx context.Context, id uuid.UUID) (Object, error) {
	row := c.queryRow(ctx, `
		SELECT id, hash, size, type, subtype, created_at FROM objects WHERE id = $1
	`, id)

	var obj Object
	if err := row.Scan(&obj.ID, &obj.Hash, &obj.Size, &obj.Type, &obj.Subtype, &obj.CreatedAt); err != nil {
		return Object{}, mapPgError(err, "get_object")
	}
	return obj, nil
}

// RemoveObject removes the membership of id in bucketID and returns the
// object row, or NotFound if no such membership exists.
func (c *Catalog) RemoveObject(ctx context.Context, bucketID, id uuid.UUID) (Object, error) {
	obj, err := c.GetObject(ctx, id)
	if err != nil {
		return Object{}, err
	}

	tag, err := c.exec(ctx, `
		DELETE FROM bucket_objects WHERE bucket_id = $1 AND object_id = $2
	`, bucketID, id)
	if err != nil {
		return Object{}, err
	}
	if tag.RowsAffected() == 0 {
		return Object{}, objecterrors.NotFoundf("remove_object: object %s not in bucket %s", id, bucketID)
	}
	return obj, nil
}

// RemoveObjects removes the membership of each id in bucketID, reporting
// which were actually removed vs. not found.
func (c *Catalog) RemoveObjects(ctx context.Context, bucketID uuid.UUID, ids []uuid.UUID) (RemoveResult, error) {
	var result RemoveResult
	for _, id := range ids {
		tag, err := c.exec(ctx, `
			DELETE FROM bucket_objects WHERE bucket_id = $1 AND object_id = $2
		`, bucketID, id)
		if err != nil {
			return RemoveResult{}, err
		}
		if tag.RowsAffected() == 0 {
			result.NotFound = append(result.NotFound, id)
		} else {
			result.Removed = append(result.Removed, id)
		}
	}
	return result, nil
}

func scanObjects(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}, operation string) ([]Object, error) {
	var objects []Object
	for rows.Next() {
		var obj Object
		if err := rows.Scan(&obj.ID, &obj.Hash, &obj.Size, &obj.Type, &obj.Subtype, &obj.CreatedAt); err != nil {
			return nil, mapPgError(err, operation)
		}
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, operation)
	}
	return objects, nil
}
