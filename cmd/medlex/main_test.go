package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlex/medlex-api/internal/api"
	"github.com/medlex/medlex-api/internal/api/shared"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/flashcard"
)

const testToken = "access-token"

var (
	cardiology = domain.Category{ID: uuid.New(), Name: "Cardiology", Color: "#dc2626"}
	tachy      = domain.Term{ID: uuid.New(), Term: "Tachycardia", Meaning: "Abnormally rapid heart rate",
		Categories: []domain.Category{cardiology}}
	mi = domain.Phrase{ID: uuid.New(), Phrase: "MI", Explanation: "Myocardial Infarction", Categories: []domain.Category{}}

	tachyID = flashcard.TermItem(tachy).ID
	miID    = flashcard.PhraseItem(mi).ID
)

// fakeAPI serves the endpoints the CLI uses and records import requests.
type fakeAPI struct {
	mu             sync.Mutex
	termImports    []api.TermImportRequest
	phraseImports  []api.PhraseImportRequest
	categoriesDown atomic.Bool
}

func (f *fakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "nurse" || req.Password != "password123" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithData(w, r, http.StatusOK, api.AuthResponse{
			AccessToken: testToken,
			ExpiresAt:   time.Now().Add(time.Hour).Format(time.RFC3339),
			User:        api.UserResponse{ID: uuid.New().String(), Username: "nurse", Role: domain.RoleUser},
		}, "Login successful")
	})
	r.Post("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithData(w, r, http.StatusOK, nil, "Logged out successfully")
	})
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer "+testToken {
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
					return
				}
				next.ServeHTTP(w, r)
			})
		})
		r.Get("/api/terms", func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithData(w, r, http.StatusOK, []domain.Term{tachy}, "")
		})
		r.Get("/api/phrases", func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithData(w, r, http.StatusOK, []domain.Phrase{mi}, "")
		})
		r.Get("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithData(w, r, http.StatusOK, api.UserResponse{
				ID:       uuid.New().String(),
				Username: "nurse",
				Email:    "nurse@example.com",
				Role:     domain.RoleUser,
			}, "")
		})
		r.Get("/api/categories", func(w http.ResponseWriter, r *http.Request) {
			if f.categoriesDown.Load() {
				shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
			shared.RespondWithData(w, r, http.StatusOK, []domain.Category{cardiology}, "")
		})
		r.Post("/api/terms/import", func(w http.ResponseWriter, r *http.Request) {
			var req api.TermImportRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.termImports = append(f.termImports, req)
			f.mu.Unlock()
			shared.RespondWithData(w, r, http.StatusOK, api.ImportResponse[domain.Term]{
				Imported: len(req.Items),
				Data:     []domain.Term{},
			}, "")
		})
		r.Post("/api/phrases/import", func(w http.ResponseWriter, r *http.Request) {
			var req api.PhraseImportRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.phraseImports = append(f.phraseImports, req)
			f.mu.Unlock()
			shared.RespondWithData(w, r, http.StatusOK, api.ImportResponse[domain.Phrase]{
				Imported: len(req.Items) - 1,
				Skipped:  1,
				Data:     []domain.Phrase{},
			}, "")
		})
	})
	return r
}

// harness runs CLI invocations against one fake server and data directory.
type harness struct {
	t       *testing.T
	api     *fakeAPI
	server  string
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := &fakeAPI{}
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return &harness{t: t, api: f, server: srv.URL, dataDir: t.TempDir()}
}

// run executes the CLI with stdin and returns stdout, stderr and the error.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--server", h.server, "--data-dir", h.dataDir}, args...)
	err := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, stderr, err := h.run("", args...)
	require.NoError(h.t, err, stderr)
	return out
}

func (h *harness) login() {
	h.t.Helper()
	out, stderr, err := h.run("password123\n", "login", "-u", "nurse")
	require.NoError(h.t, err, stderr)
	require.Contains(h.t, out, "Logged in as nurse (user)")
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "cards")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	_, _, err = h.run("wrong\n", "login", "-u", "nurse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	h.login()
	out := h.mustRun("cards")
	assert.Contains(t, out, "Tachycardia")

	assert.Contains(t, h.mustRun("logout"), "Logged out")
	_, _, err = h.run("", "cards")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLogin_RequiresUsername(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("password123\n", "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"username" not set`)
}

func TestCards_Filters(t *testing.T) {
	h := newHarness(t)
	h.login()

	out := h.mustRun("cards")
	assert.Contains(t, out, tachyID)
	assert.Contains(t, out, miID)
	assert.Contains(t, out, "2 of 2 cards")

	out = h.mustRun("cards", "--category", "cardiology")
	assert.Contains(t, out, tachyID)
	assert.NotContains(t, out, miID)

	out = h.mustRun("cards", "--search", "infarction")
	assert.Contains(t, out, miID)
	assert.Contains(t, out, "1 of 2 cards")

	_, _, err := h.run("", "cards", "--category", "Oncology")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "Oncology"`)
}

func TestCards_CategoryIDWhenCategoriesUnavailable(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.api.categoriesDown.Store(true)

	out, stderr, err := h.run("", "cards", "--category", cardiology.ID.String())
	require.NoError(t, err, stderr)
	assert.Contains(t, stderr, "warning: categories unavailable")
	assert.Contains(t, out, tachyID)
	assert.NotContains(t, out, miID)
	assert.Contains(t, out, "1 of 2 cards")
}

func TestWhoami(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("whoami")
	assert.Contains(t, out, "Not logged in")
	assert.Contains(t, out, filepath.Join(h.dataDir, "medlex.db"))

	h.login()
	out = h.mustRun("whoami")
	assert.Contains(t, out, "Logged in as nurse (user) on "+h.server)
	assert.Contains(t, out, "Email: nurse@example.com")
}

func TestStats(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "medlex login")

	h.login()
	out := h.mustRun("stats")
	assert.Regexp(t, `Terms:\s+1`, out)
	assert.Regexp(t, `Phrases:\s+1`, out)
	assert.Regexp(t, `Categories:\s+1`, out)
	assert.Contains(t, out, "Recent terms")
	assert.Contains(t, out, "Tachycardia")
	assert.Contains(t, out, "Recent phrases")
	assert.Contains(t, out, "Myocardial Infarction")
	assert.Contains(t, out, "Recent categories")
}

func TestBasket(t *testing.T) {
	h := newHarness(t)
	h.login()

	assert.Contains(t, h.mustRun("basket", "list"), "Basket is empty")

	out, stderr, err := h.run("", "basket", "add", tachyID, "term-missing")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 cards (1 in basket)")
	assert.Contains(t, stderr, "no card with ID term-missing")

	// Adding again is a no-op.
	assert.Contains(t, h.mustRun("basket", "add", tachyID), "Added 0 cards (1 in basket)")

	out = h.mustRun("basket", "list")
	assert.Contains(t, out, "Tachycardia")
	assert.Contains(t, out, "1 cards in basket")

	// The catalog marks basket cards.
	assert.Contains(t, h.mustRun("cards"), "*  "+tachyID)

	assert.Contains(t, h.mustRun("basket", "add-all"), "Added 1 cards (2 in basket)")
	assert.Contains(t, h.mustRun("basket", "remove", tachyID), "Removed 1 cards (1 in basket)")

	out = h.mustRun("basket", "list")
	assert.Contains(t, out, "MI")
	assert.NotContains(t, out, "Tachycardia")

	assert.Contains(t, h.mustRun("basket", "clear"), "Basket cleared")
	assert.Contains(t, h.mustRun("basket", "list"), "Basket is empty")
}

func TestBasket_AddAllWithFilter(t *testing.T) {
	h := newHarness(t)
	h.login()

	assert.Contains(t, h.mustRun("basket", "add-all", "-c", "Cardiology"), "Added 1 cards (1 in basket)")
	assert.Contains(t, h.mustRun("basket", "list"), tachyID)
}

func TestStudy(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, _, err := h.run("", "study", "--basket")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to study")

	out, stderr, err := h.run("q", "study", "--delay", "0s")
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "Session ended: 0 of 2 cards learned in 0 reviews")
}

func TestImportTerms(t *testing.T) {
	h := newHarness(t)
	h.login()

	path := filepath.Join(t.TempDir(), "terms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
globalCategories: [Cardiology]
items:
  - term: "  Bradycardia "
    meaning: Abnormally slow heart rate
    categories: [Rhythm]
  - term: Arrhythmia
`), 0o600))

	out, stderr, err := h.run("", "import", "terms", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "1 terms valid, 1 skipped")
	assert.Contains(t, stderr, "item 2 skipped: meaning is required")
	assert.Empty(t, h.api.termImports)

	out, _, err = h.run("", "import", "terms", path, "-c", "Vitals")
	require.NoError(t, err)
	assert.Contains(t, out, "1 terms imported successfully (1 skipped)")

	require.Len(t, h.api.termImports, 1)
	req := h.api.termImports[0]
	assert.Equal(t, []string{"Cardiology", "Vitals"}, req.GlobalCategories)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "Bradycardia", req.Items[0].Term)
	assert.Equal(t, []string{"Rhythm"}, req.Items[0].Categories)
}

func TestImportPhrases_JSONList(t *testing.T) {
	h := newHarness(t)
	h.login()

	path := filepath.Join(t.TempDir(), "phrases.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"phrase": "CVA", "explanation": "Cerebrovascular Accident"},
		{"phrase": "MI", "explanation": "Myocardial Infarction"}
	]`), 0o600))

	out, _, err := h.run("", "import", "phrases", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 phrases imported successfully (1 skipped)")

	require.Len(t, h.api.phraseImports, 1)
	assert.Len(t, h.api.phraseImports[0].Items, 2)
}

func TestImport_BadFiles(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	cases := map[string]string{
		"scalar.yaml": "just text",
		"empty.yaml":  "",
		"broken.json": `{"items": [`,
		"none.yaml":   "items: []",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, _, err := h.run("", "import", "terms", path)
			assert.Error(t, err)
		})
	}

	_, _, err := h.run("", "import", "terms", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestImportTerms_LongCategorySkipped(t *testing.T) {
	h := newHarness(t)
	h.login()

	path := filepath.Join(t.TempDir(), "terms.yaml")
	content := "- term: Aphasia\n  meaning: Loss of language\n  categories: [" + strings.Repeat("x", 101) + "]\n" +
		"- term: Apnea\n  meaning: Pause in breathing\n  categories: [Respiratory]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, stderr, err := h.run("", "import", "terms", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "item 1 skipped")
	assert.Contains(t, stderr, "at most 100 characters")
	assert.Contains(t, out, "1 terms imported successfully (1 skipped)")

	require.Len(t, h.api.termImports, 1)
	require.Len(t, h.api.termImports[0].Items, 1)
	assert.Equal(t, "Apnea", h.api.termImports[0].Items[0].Term)
}
