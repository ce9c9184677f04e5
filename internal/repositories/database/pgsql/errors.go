package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_posting/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// ConstraintName returns the violated constraint, or "" if err is not a Postgres error.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func uniqueConflict(err error) error {
	return fmt.Errorf("%w: unique constraint %s", apperrors.ErrConflict, ConstraintName(err))
}

// MapWriteError turns unique violations into apperrors.ErrConflict and wraps anything
// else as an internal error.
func MapWriteError(msg string, err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return uniqueConflict(err)
	}
	return apperrors.NewAppError(500, msg, err)
}
