package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// acquireTimeout bounds how long a query waits for a free pool connection.
// Without it, a pool exhausted by concurrent for_each_object workers would
// block a caller's context.Background() call indefinitely.
const acquireTimeout = 10 * time.Second

// queryRow executes a query expected to return at most one row.
func (c *Catalog) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if ctx.Err() != nil {
		return &errorRow{err: ctx.Err()}
	}

	acquireCtx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	conn, err := c.pool.Acquire(acquireCtx)
	if err != nil {
		return &errorRow{err: acquireErr(err, acquireCtx, ctx, "queryRow")}
	}

	row := conn.QueryRow(ctx, sql, args...)
	return &poolRow{row: row, conn: conn}
}

// query executes a query returning rows. Caller must Close the result.
func (c *Catalog) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	conn, err := c.pool.Acquire(acquireCtx)
	if err != nil {
		return nil, mapPgError(acquireErr(err, acquireCtx, ctx, "query"), "query")
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		conn.Release()
		return nil, mapPgError(err, "query")
	}

	return &poolRows{rows: rows, conn: conn}, nil
}

// exec executes a statement and returns the command tag.
func (c *Catalog) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	conn, err := c.pool.Acquire(acquireCtx)
	if err != nil {
		return pgconn.CommandTag{}, mapPgError(acquireErr(err, acquireCtx, ctx, "exec"), "exec")
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return pgconn.CommandTag{}, mapPgError(err, "exec")
	}
	return tag, nil
}

// beginTx starts a transaction. Caller must commit or rollback.
func (c *Catalog) beginTx(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	tx, err := c.pool.Begin(acquireCtx)
	if err != nil {
		return nil, mapPgError(acquireErr(err, acquireCtx, ctx, "beginTx"), "beginTx")
	}
	return tx, nil
}

func acquireErr(err error, acquireCtx, parentCtx context.Context, op string) error {
	if acquireCtx.Err() == context.DeadlineExceeded && parentCtx.Err() == nil {
		return fmt.Errorf("%s: connection acquire timeout after %v: pool may be exhausted", op, acquireTimeout)
	}
	return err
}

// errorRow implements pgx.Row by always returning a fixed error.
type errorRow struct{ err error }

func (r *errorRow) Scan(dest ...any) error { return r.err }

// poolRow wraps a pgx.Row and releases its connection once scanned.
type poolRow struct {
	row  pgx.Row
	conn *pgxpool.Conn
}

func (r *poolRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.conn.Release()
	if err != nil {
		return mapPgError(err, "scan")
	}
	return nil
}

// poolRows wraps pgx.Rows and releases its connection once closed.
type poolRows struct {
	rows pgx.Rows
	conn *pgxpool.Conn
}

func (r *poolRows) Close() {
	r.rows.Close()
	r.conn.Release()
}

func (r *poolRows) Err() error                              { return r.rows.Err() }
func (r *poolRows) Next() bool                               { return r.rows.Next() }
func (r *poolRows) Scan(dest ...any) error                   { return r.rows.Scan(dest...) }
func (r *poolRows) Values() ([]any, error)                   { return r.rows.Values() }
func (r *poolRows) RawValues() [][]byte                      { return r.rows.RawValues() }
func (r *poolRows) FieldDescriptions() []pgconn.FieldDescription { return r.rows.FieldDescriptions() }
func (r *poolRows) CommandTag() pgconn.CommandTag            { return r.rows.CommandTag() }
func (r *poolRows) Conn() *pgx.Conn                          { return r.rows.Conn() }
