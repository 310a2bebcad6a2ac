package catalog

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fstorehq/fstore/internal/objecterrors"
)

// mapPgError maps a PostgreSQL driver error to the store's error taxonomy.
func mapPgError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var mapped *objecterrors.Error
	if errors.As(err, &mapped) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return objecterrors.NotFoundf("%s: not found", operation)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgErrorCode(pgErr, operation)
	}

	return objecterrors.Internalf("%s: %v", operation, err)
}

// mapPgErrorCode maps PostgreSQL error codes to the store's taxonomy.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func mapPgErrorCode(pgErr *pgconn.PgError, operation string) error {
	switch pgErr.Code {
	case "23505": // unique_violation
		return objecterrors.InvalidInputf("%s: already exists", operation)
	case "23503": // foreign_key_violation
		return objecterrors.NotFoundf("%s: referenced item not found", operation)
	case "23514", "23502": // check_violation, not_null_violation
		return objecterrors.InvalidInputf("%s: invalid value", operation)
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return objecterrors.Internalf("%s: transaction conflict, retry", operation)
	case "53100", "53200": // disk_full, out_of_memory
		return objecterrors.Internalf("%s: database resource exhausted", operation)
	case "57014": // query_canceled
		return objecterrors.Internalf("%s: query canceled", operation)
	case "08000", "08003", "08006": // connection errors
		return objecterrors.Internalf("%s: database connection error", operation)
	default:
		return objecterrors.Internalf("%s: database error [%s] %s", operation, pgErr.Code, pgErr.Message)
	}
}
