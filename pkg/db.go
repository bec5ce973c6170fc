package pkg

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	PgCodeUniqueViolation     = "23505"
	PgCodeForeignKeyViolation = "23503"
	PgCodeUndefinedTable      = "42P01"
)

// PgErrorCode returns the SQLSTATE of a postgres error, or empty string
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	return PgErrorCode(err) == PgCodeUniqueViolation
}

// IsForeignKeyViolationError checks if the error is a foreign key violation error
func IsForeignKeyViolationError(err error) bool {
	return PgErrorCode(err) == PgCodeForeignKeyViolation
}

// IsUndefinedTableError checks if the error says that the queried relation does not exist
func IsUndefinedTableError(err error) bool {
	return PgErrorCode(err) == PgCodeUndefinedTable
}

// IsConnectionError reports errors where the database could not be reached at all
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
