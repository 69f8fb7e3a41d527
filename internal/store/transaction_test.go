package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRunInTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM term_categories").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM term_categories WHERE term_id = $1", "x")
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns the function error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		fnErr := errors.New("duplicate term")

		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			return fnErr
		})

		assert.Same(t, fnErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		beginErr := errors.New("connection refused")
		mock.ExpectBegin().WillReturnError(beginErr)

		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			t.Fatal("fn must not run")
			return nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		commitErr := errors.New("commit failed")
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(commitErr)

		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error { return nil })

		assert.ErrorIs(t, err, commitErr)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})

	t.Run("rollback failure keeps original error", func(t *testing.T) {
		db, mock := newMockDB(t)
		fnErr := errors.New("function failed")
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))

		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error { return fnErr })

		assert.ErrorIs(t, err, fnErr)
		assert.Contains(t, err.Error(), "rollback failed")
	})

	t.Run("panic rolls back and re-panics", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestErrorClassification(t *testing.T) {
	notFound := []error{ErrUserNotFound, ErrTermNotFound, ErrPhraseNotFound, ErrCategoryNotFound}
	for _, err := range notFound {
		assert.True(t, IsNotFoundError(err), err.Error())
		assert.False(t, IsDuplicateError(err), err.Error())
	}

	duplicates := []error{ErrEmailExists, ErrUsernameExists, ErrTermExists, ErrPhraseExists, ErrCategoryExists}
	for _, err := range duplicates {
		assert.True(t, IsDuplicateError(err), err.Error())
		assert.False(t, IsNotFoundError(err), err.Error())
	}

	assert.Equal(t, "entity not found: term", ErrTermNotFound.Error())
}

func TestStoreError(t *testing.T) {
	inner := errors.New("timeout")
	err := NewStoreError("term", "list", "query failed", inner)

	assert.Equal(t, "list operation on term failed: query failed: timeout", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("category", "delete", "not permitted", nil)
	assert.Equal(t, "delete operation on category failed: not permitted", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
