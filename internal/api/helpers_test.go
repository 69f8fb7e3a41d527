package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/medlex/medlex-api/internal/api"
	"github.com/medlex/medlex-api/internal/api/middleware"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/mocks"
	"github.com/medlex/medlex-api/internal/service"
	"github.com/medlex/medlex-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "password123"

// apiFixture serves the real /api routes over in-memory stores. Tokens are
// "access-<username>" and "refresh-<username>".
type apiFixture struct {
	db         *sql.DB
	sql        sqlmock.Sqlmock
	users      *mocks.MockUserStore
	categories *mocks.MockCategoryStore
	terms      *mocks.MockTermStore
	phrases    *mocks.MockPhraseStore
	admin      *domain.User
	user       *domain.User
	router     http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	f := &apiFixture{
		db:    db,
		sql:   mock,
		admin: newUser(t, "admin", domain.RoleAdmin),
		user:  newUser(t, "nurse", domain.RoleUser),
	}
	f.users = mocks.NewMockUserStore(f.admin, f.user)
	f.categories = mocks.NewMockCategoryStore()
	f.terms = mocks.NewMockTermStore(f.categories)
	f.phrases = mocks.NewMockPhraseStore(f.categories)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwt := &mocks.MockJWTService{
		GenerateTokenFn: func(_ context.Context, u *domain.User) (string, error) {
			return "access-" + u.Username, nil
		},
		GenerateRefreshTokenFn: func(_ context.Context, u *domain.User) (string, error) {
			return "refresh-" + u.Username, nil
		},
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			return f.claims(ctx, token, "access-", auth.ErrInvalidToken)
		},
		ValidateRefreshTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			return f.claims(ctx, token, "refresh-", auth.ErrInvalidRefreshToken)
		},
	}
	verifier := &mocks.MockPasswordVerifier{
		CompareFn: func(hashed, password string) error {
			if hashed != mocks.HashPrefix+password {
				return mocks.ErrPasswordMismatch
			}
			return nil
		},
	}

	authService, err := auth.NewService(f.users, jwt, verifier, log)
	require.NoError(t, err)
	terms, err := service.NewTermService(db, f.terms, f.categories, log)
	require.NoError(t, err)
	phrases, err := service.NewPhraseService(db, f.phrases, f.categories, log)
	require.NoError(t, err)
	categories, err := service.NewCategoryService(f.categories, log)
	require.NoError(t, err)
	users, err := service.NewUserService(f.users, db, log)
	require.NoError(t, err)
	importer, err := service.NewImportService(db, f.terms, f.phrases, f.categories, log)
	require.NoError(t, err)

	handlers := api.Handlers{
		Auth:       api.NewAuthHandler(authService, true, log),
		Terms:      api.NewTermHandler(terms, importer, log),
		Phrases:    api.NewPhraseHandler(phrases, importer, log),
		Categories: api.NewCategoryHandler(categories, log),
		Users:      api.NewUserHandler(users, log),
		Flashcards: api.NewFlashcardHandler(terms, phrases, categories, log),
	}

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Route("/api", handlers.Routes(middleware.NewAuthMiddleware(jwt, log)))
	f.router = r
	return f
}

func newUser(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, username+"@medicalapp.com", testPassword, role)
	require.NoError(t, err)
	u.HashedPassword = mocks.HashPrefix + testPassword
	u.Password = ""
	return u
}

func (f *apiFixture) claims(ctx context.Context, token, prefix string, invalid error) (*auth.Claims, error) {
	username, ok := strings.CutPrefix(token, prefix)
	if !ok {
		return nil, invalid
	}
	u, err := f.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, invalid
	}
	return &auth.Claims{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (f *apiFixture) expectCommit() {
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
}

func (f *apiFixture) expectRollback() {
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
}

// category stores a category owned by owner.
func (f *apiFixture) category(t *testing.T, owner *domain.User, name string) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory(owner.ID, name, "", "#10B981")
	require.NoError(t, err)
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c
}

// do sends a request as the user, or anonymously when as is nil.
func (f *apiFixture) do(t *testing.T, method, path string, body any, as *domain.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer access-"+as.Username)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors the response envelopes with Data left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	TraceID string          `json:"trace_id"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// requireError asserts an error envelope with status and message.
func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, message, env.Error)
	assert.NotEmpty(t, env.TraceID)
}

var errBoom = errors.New("connection reset by peer")

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func serve(f *apiFixture, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
