package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires in-memory stores to a sqlmock database that only sees
// BEGIN, COMMIT and ROLLBACK.
type fixture struct {
	db         *sql.DB
	sql        sqlmock.Sqlmock
	users      *mocks.MockUserStore
	categories *mocks.MockCategoryStore
	terms      *mocks.MockTermStore
	phrases    *mocks.MockPhraseStore
	owner      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	categories := mocks.NewMockCategoryStore()
	return &fixture{
		db:         db,
		sql:        mock,
		users:      mocks.NewMockUserStore(),
		categories: categories,
		terms:      mocks.NewMockTermStore(categories),
		phrases:    mocks.NewMockPhraseStore(categories),
		owner:      uuid.New(),
	}
}

func (f *fixture) expectCommit() {
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
}

// category stores a category owned by owner and returns it.
func (f *fixture) category(t *testing.T, owner uuid.UUID, name string) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory(owner, name, "", "#dc2626")
	require.NoError(t, err)
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c
}

func categoryNames(cats []domain.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}
