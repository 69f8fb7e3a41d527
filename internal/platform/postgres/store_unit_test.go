package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/postgres"
	"github.com/medlex/medlex-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var termRowColumns = []string{"id", "term", "meaning", "pronunciation", "created_by", "created_at", "updated_at"}

var linkRowColumns = []string{
	"term_id", "id", "name", "description", "color", "created_by", "created_at", "updated_at",
}

func TestNewStores_NilDBPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresTermStore(nil, nil) })
	assert.Panics(t, func() { postgres.NewPostgresPhraseStore(nil, nil) })
	assert.Panics(t, func() { postgres.NewPostgresCategoryStore(nil, nil) })
	assert.Panics(t, func() { postgres.NewPostgresUserStore(nil, 4, nil) })
}

func TestTermStore_Create(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	term, err := domain.NewTerm(owner, "Tachycardia", "Fast heart rate", "tak-ih-KAR-dee-uh")
	require.NoError(t, err)

	t.Run("inserts the row", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO terms").
			WithArgs(term.ID, term.Term, term.Meaning, term.Pronunciation, owner, term.CreatedAt, term.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := postgres.NewPostgresTermStore(db, nil)
		assert.NoError(t, s.Create(context.Background(), term))
	})

	t.Run("maps the owner/text constraint to ErrTermExists", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO terms").
			WillReturnError(newPgError("23505", "terms_owner_term_key"))

		s := postgres.NewPostgresTermStore(db, nil)
		err := s.Create(context.Background(), term)
		assert.ErrorIs(t, err, store.ErrTermExists)
	})

	t.Run("rejects invalid terms without touching the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		invalid := *term
		invalid.Meaning = ""

		s := postgres.NewPostgresTermStore(db, nil)
		assert.ErrorIs(t, s.Create(context.Background(), &invalid), domain.ErrEmptyMeaning)
	})
}

func TestTermStore_GetByID(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery("FROM terms WHERE id = \\$1 AND created_by = \\$2").
			WithArgs(id, owner).
			WillReturnRows(sqlmock.NewRows(termRowColumns))

		s := postgres.NewPostgresTermStore(db, nil)
		_, err := s.GetByID(context.Background(), owner, id)
		assert.ErrorIs(t, err, store.ErrTermNotFound)
	})

	t.Run("loads categories", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		catID := uuid.New()
		mock.ExpectQuery("FROM terms WHERE id").
			WithArgs(id, owner).
			WillReturnRows(sqlmock.NewRows(termRowColumns).
				AddRow(id.String(), "Bradycardia", "Slow heart rate", "", owner.String(), now, now))
		mock.ExpectQuery("FROM term_categories").
			WithArgs("{" + id.String() + "}").
			WillReturnRows(sqlmock.NewRows(linkRowColumns).
				AddRow(id.String(), catID.String(), "Cardiology", "", "#dc2626", owner.String(), now, now))

		s := postgres.NewPostgresTermStore(db, nil)
		got, err := s.GetByID(context.Background(), owner, id)
		require.NoError(t, err)
		assert.Equal(t, "Bradycardia", got.Term)
		assert.Empty(t, got.Pronunciation)
		require.Len(t, got.Categories, 1)
		assert.Equal(t, catID, got.Categories[0].ID)
		assert.Equal(t, "Cardiology", got.Categories[0].Name)
	})
}

func TestTermStore_List(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	owner := uuid.New()
	first, second := uuid.New(), uuid.New()
	catID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("FROM terms WHERE created_by = \\$1 ORDER BY created_at DESC").
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(termRowColumns).
			AddRow(first.String(), "Hypertension", "High blood pressure", "", owner.String(), now, now).
			AddRow(second.String(), "Arrhythmia", "Irregular rhythm", "", owner.String(), now, now))
	mock.ExpectQuery("FROM term_categories").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(linkRowColumns).
			AddRow(second.String(), catID.String(), "Cardiology", "", "#dc2626", owner.String(), now, now))

	s := postgres.NewPostgresTermStore(db, nil)
	terms, err := s.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "Hypertension", terms[0].Term)
	assert.NotNil(t, terms[0].Categories)
	assert.Empty(t, terms[0].Categories)
	require.Len(t, terms[1].Categories, 1)
	assert.Equal(t, catID, terms[1].Categories[0].ID)
}

func TestTermStore_SetCategories(t *testing.T) {
	t.Parallel()

	termID := uuid.New()
	a, b := uuid.New(), uuid.New()

	t.Run("replaces links", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectExec("DELETE FROM term_categories WHERE term_id = \\$1").
			WithArgs(termID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO term_categories").
			WithArgs(termID, "{"+a.String()+","+b.String()+"}").
			WillReturnResult(sqlmock.NewResult(0, 2))

		s := postgres.NewPostgresTermStore(db, nil)
		assert.NoError(t, s.SetCategories(context.Background(), termID, []uuid.UUID{a, b}))
	})

	t.Run("empty set only clears", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectExec("DELETE FROM term_categories").
			WithArgs(termID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := postgres.NewPostgresTermStore(db, nil)
		assert.NoError(t, s.SetCategories(context.Background(), termID, nil))
	})
}

func TestTermStore_DeleteMissing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	owner, id := uuid.New(), uuid.New()
	mock.ExpectExec("DELETE FROM terms").
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := postgres.NewPostgresTermStore(db, nil)
	assert.ErrorIs(t, s.Delete(context.Background(), owner, id), store.ErrTermNotFound)
}

func TestTermStore_ExistsByText(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	owner := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(owner, "Tachycardia", uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	s := postgres.NewPostgresTermStore(db, nil)
	exists, err := s.ExistsByText(context.Background(), owner, "Tachycardia", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPhraseStore_UpdateDuplicate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	phrase, err := domain.NewPhrase(uuid.New(), "MI", "Myocardial infarction")
	require.NoError(t, err)
	mock.ExpectExec("UPDATE phrases").
		WillReturnError(newPgError("23505", "phrases_owner_phrase_key"))

	s := postgres.NewPostgresPhraseStore(db, nil)
	assert.ErrorIs(t, s.Update(context.Background(), phrase), store.ErrPhraseExists)
}

func TestPhraseStore_GetByIDLoadsPhraseLinks(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	owner, id := uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("FROM phrases WHERE id").
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phrase", "explanation", "created_by", "created_at", "updated_at"}).
			AddRow(id.String(), "GERD", "Gastroesophageal reflux disease", owner.String(), now, now))
	mock.ExpectQuery("FROM phrase_categories").
		WillReturnRows(sqlmock.NewRows(linkRowColumns))

	s := postgres.NewPostgresPhraseStore(db, nil)
	got, err := s.GetByID(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, "GERD", got.Phrase)
	assert.Equal(t, []domain.Category{}, got.Categories)
}

func TestCategoryStore(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("count owned skips query for empty input", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		s := postgres.NewPostgresCategoryStore(db, nil)
		n, err := s.CountOwned(context.Background(), owner, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("count owned", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		ids := []uuid.UUID{uuid.New(), uuid.New()}
		mock.ExpectQuery("SELECT COUNT\\(DISTINCT id\\) FROM categories").
			WithArgs(owner, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		s := postgres.NewPostgresCategoryStore(db, nil)
		n, err := s.CountOwned(context.Background(), owner, ids)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("find by name misses", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery("lower\\(name\\) = lower\\(\\$2\\)").
			WithArgs(owner, "cardiology").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		s := postgres.NewPostgresCategoryStore(db, nil)
		_, err := s.FindByName(context.Background(), owner, "cardiology")
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})

	t.Run("create duplicate name", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		c, err := domain.NewCategory(owner, "Cardiology", "", "#dc2626")
		require.NoError(t, err)
		mock.ExpectExec("INSERT INTO categories").
			WillReturnError(newPgError("23505", "categories_owner_name_key"))

		s := postgres.NewPostgresCategoryStore(db, nil)
		assert.ErrorIs(t, s.Create(context.Background(), c), store.ErrCategoryExists)
	})

	t.Run("update missing", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		c, err := domain.NewCategory(owner, "Neurology", "", "#2563eb")
		require.NoError(t, err)
		mock.ExpectExec("UPDATE categories").
			WillReturnResult(sqlmock.NewResult(0, 0))

		s := postgres.NewPostgresCategoryStore(db, nil)
		assert.ErrorIs(t, s.Update(context.Background(), c), store.ErrCategoryNotFound)
	})
}

func TestUserStore_CreateHashesPassword(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	user, err := domain.NewUser("alice", "Alice@Example.com", "password123", domain.RoleUser)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, "alice", "alice@example.com", "user", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	require.NoError(t, s.Create(context.Background(), user))

	assert.Empty(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("password123")))
}

func TestUserStore_CreateDuplicateUsername(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	user, err := domain.NewUser("admin", "admin@medicalapp.com", "admin123", domain.RoleAdmin)
	require.NoError(t, err)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(newPgError("23505", "users_username_key"))

	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrUsernameExists)
}

func TestUserStore_GetByUsernameMissing(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM users WHERE username = \\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	_, err := s.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_ListWithCounts(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("FROM users u").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "role", "hashed_password", "created_at", "updated_at",
			"terms", "phrases", "categories",
		}).AddRow(id.String(), "admin", "admin@medicalapp.com", "admin", "hash", now, now, 6, 6, 6))

	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	users, err := s.ListWithCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, domain.ContentCounts{Terms: 6, Phrases: 6, Categories: 6}, users[0].Counts)
}
