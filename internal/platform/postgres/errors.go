package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/medlex/medlex-api/internal/store"
)

// SQLSTATE codes for integrity constraint violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// uniqueConstraintErrors maps the unique constraints declared in the
// migrations to the store sentinel a caller can match on.
var uniqueConstraintErrors = map[string]error{
	"users_username_key":        store.ErrUsernameExists,
	"users_email_key":           store.ErrEmailExists,
	"categories_owner_name_key": store.ErrCategoryExists,
	"terms_owner_term_key":      store.ErrTermExists,
	"phrases_owner_phrase_key":  store.ErrPhraseExists,
}

// MapError maps a database error to an appropriate store error.
// It wraps the original error so the driver detail stays available to logs.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		if specific, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w: %v", specific, err)
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case codeForeignKeyViolation, codeCheckViolation:
		return fmt.Errorf("%w: constraint %s violated: %v", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case codeNotNullViolation:
		return fmt.Errorf("%w: column %s is required: %v", store.ErrInvalidEntity, pgErr.ColumnName, err)
	}
	return err
}

// ViolationCode returns the SQLSTATE of a PostgreSQL error, or "" when err
// did not come from the server.
func ViolationCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return ViolationCode(err) == codeUniqueViolation
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
// A nil notFound falls back to store.ErrNotFound.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("no result to check")
	}
	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return fmt.Errorf("failed to get rows affected: %w", err)
	case n > 0:
		return nil
	case notFound != nil:
		return notFound
	default:
		return store.ErrNotFound
	}
}
