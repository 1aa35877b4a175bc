package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for foreign_key_violation
const fkViolationCode = "23503"

// IsForeignKeyViolation reports whether err is a referential-integrity
// violation from Postgres. Delete handlers translate these into
// "cannot delete: still referenced by ..." messages instead of
// surfacing the raw database error.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolationCode
}
