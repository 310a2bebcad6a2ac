package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

const bucketSelectColumns = `
	b.id, b.name, b.created_at,
	COALESCE(COUNT(o.id), 0) AS object_count,
	COALESCE(SUM(o.size), 0) AS space_used
`

const bucketSelectFrom = `
	FROM buckets b
	LEFT JOIN bucket_objects bo ON bo.bucket_id = b.id
	LEFT JOIN objects o ON o.id = bo.object_id
`

func scanBucket(row interface{ Scan(dest ...any) error }) (Bucket, error) {
	var b Bucket
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.ObjectCount, &b.SpaceUsed); err != nil {
		return Bucket{}, err
	}
	return b, nil
}

// CreateBucket inserts a new, empty bucket with the given name.
func (c *Catalog) CreateBucket(ctx context.Context, name string) (Bucket, error) {
	id := uuid.New()
	row := c.queryRow(ctx, `
		INSERT INTO buckets (id, name) VALUES ($1, $2)
		RETURNING id, name, created_at, 0, 0
	`, id, name)

	b, err := scanBucket(row)
	if err != nil {
		return Bucket{}, mapPgError(err, "create_bucket")
	}
	return b, nil
}

// CloneBucket creates a new bucket sharing the original's object set by
// reference: every bucket_objects row for original_id is duplicated under
// the new bucket id.
func (c *Catalog) CloneBucket(ctx context.Context, originalID uuid.UUID, newName string) (Bucket, error) {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return Bucket{}, err
	}
	defer tx.Rollback(ctx)

	newID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO buckets (id, name) VALUES ($1, $2)`, newID, newName); err != nil {
		return Bucket{}, mapPgError(err, "clone_bucket")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bucket_objects (bucket_id, object_id)
		SELECT $1, object_id FROM bucket_objects WHERE bucket_id = $2
	`, newID, originalID); err != nil {
		return Bucket{}, mapPgError(err, "clone_bucket")
	}

	row := tx.QueryRow(ctx, `
		SELECT `+bucketSelectColumns+bucketSelectFrom+`
		WHERE b.id = $1
		GROUP BY b.id
	`, newID)

	b, err := scanBucket(row)
	if err != nil {
		return Bucket{}, mapPgError(err, "clone_bucket")
	}

	if err := tx.Commit(ctx); err != nil {
		return Bucket{}, mapPgError(err, "clone_bucket")
	}
	return b, nil
}

// FetchBucket returns the bucket with the given name.
func (c *Catalog) FetchBucket(ctx context.Context, name string) (Bucket, error) {
	row := c.queryRow(ctx, `
		SELECT `+bucketSelectColumns+bucketSelectFrom+`
		WHERE b.name = $1
		GROUP BY b.id
	`, name)

	b, err := scanBucket(row)
	if err != nil {
		return Bucket{}, mapPgError(err, "fetch_bucket")
	}
	return b, nil
}

// FetchBucketByID returns the bucket with the given id.
func (c *Catalog) FetchBucketByID(ctx context.Context, id uuid.UUID) (Bucket, error) {
	row := c.queryRow(ctx, `
		SELECT `+bucketSelectColumns+bucketSelectFrom+`
		WHERE b.id = $1
		GROUP BY b.id
	`, id)

	b, err := scanBucket(row)
	if err != nil {
		return Bucket{}, mapPgError(err, "fetch_bucket")
	}
	return b, nil
}

// FetchBucketsAll returns every bucket in the catalog.
func (c *Catalog) FetchBucketsAll(ctx context.Context) ([]Bucket, error) {
	rows, err := c.query(ctx, `
		SELECT `+bucketSelectColumns+bucketSelectFrom+`
		GROUP BY b.id
		ORDER BY b.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, mapPgError(err, "fetch_buckets_all")
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "fetch_buckets_all")
	}
	return buckets, nil
}

// RenameBucket renames the bucket with the given id.
func (c *Catalog) RenameBucket(ctx context.Context, id uuid.UUID, newName string) (Bucket, error) {
	row := c.queryRow(ctx, `
		UPDATE buckets SET name = $2 WHERE id = $1
		RETURNING id, name, created_at
	`, id, newName)

	var b Bucket
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
		return Bucket{}, mapPgError(err, "rename_bucket")
	}
	return c.FetchBucketByID(ctx, id)
}

// RemoveBucket deletes the bucket and its membership rows. Object rows
// themselves are untouched; they become reclaimable by prune if this was
// their last membership.
func (c *Catalog) RemoveBucket(ctx context.Context, id uuid.UUID) error {
	tag, err := c.exec(ctx, `DELETE FROM buckets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return objecterrors.NotFoundf("remove_bucket: bucket %s not found", id)
	}
	return nil
}
