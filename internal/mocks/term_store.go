package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/store"
)

// MockTermStore implements store.TermStore for testing. Categories are
// resolved through the MockCategoryStore it was created with.
type MockTermStore struct {
	CreateFn        func(ctx context.Context, term *domain.Term) error
	GetByIDFn       func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Term, error)
	ListFn          func(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error)
	ExistsByTextFn  func(ctx context.Context, ownerID uuid.UUID, text string, excludeID uuid.UUID) (bool, error)
	UpdateFn        func(ctx context.Context, term *domain.Term) error
	SetCategoriesFn func(ctx context.Context, termID uuid.UUID, categoryIDs []uuid.UUID) error
	DeleteFn        func(ctx context.Context, ownerID, id uuid.UUID) error

	mu         sync.Mutex
	terms      map[uuid.UUID]domain.Term
	links      *links
	categories *MockCategoryStore
}

// NewMockTermStore creates an empty store. categories may be nil.
func NewMockTermStore(categories *MockCategoryStore) *MockTermStore {
	return &MockTermStore{
		terms:      map[uuid.UUID]domain.Term{},
		links:      newLinks(categories),
		categories: categories,
	}
}

// Create implements store.TermStore.
func (m *MockTermStore) Create(ctx context.Context, term *domain.Term) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, term)
	}
	if err := term.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken(term.CreatedBy, term.Term, term.ID) {
		return store.ErrTermExists
	}
	m.terms[term.ID] = *term
	return nil
}

func (m *MockTermStore) taken(ownerID uuid.UUID, text string, excludeID uuid.UUID) bool {
	for _, t := range m.terms {
		if t.ID != excludeID && t.CreatedBy == ownerID && t.Term == text {
			return true
		}
	}
	return false
}

func (m *MockTermStore) hydrate(t domain.Term) domain.Term {
	t.Categories = []domain.Category{}
	if m.categories != nil {
		t.Categories = m.categories.resolve(m.links.get(t.ID))
	}
	return t
}

// GetByID implements store.TermStore.
func (m *MockTermStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Term, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	t, ok := m.terms[id]
	m.mu.Unlock()
	if !ok || t.CreatedBy != ownerID {
		return nil, store.ErrTermNotFound
	}
	t = m.hydrate(t)
	return &t, nil
}

// List implements store.TermStore, newest first.
func (m *MockTermStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID)
	}

	m.mu.Lock()
	out := []domain.Term{}
	for _, t := range m.terms {
		if t.CreatedBy == ownerID {
			out = append(out, t)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for i := range out {
		out[i] = m.hydrate(out[i])
	}
	return out, nil
}

// ExistsByText implements store.TermStore.
func (m *MockTermStore) ExistsByText(
	ctx context.Context,
	ownerID uuid.UUID,
	text string,
	excludeID uuid.UUID,
) (bool, error) {
	if m.ExistsByTextFn != nil {
		return m.ExistsByTextFn(ctx, ownerID, text, excludeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taken(ownerID, text, excludeID), nil
}

// Update implements store.TermStore.
func (m *MockTermStore) Update(ctx context.Context, term *domain.Term) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, term)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.terms[term.ID]
	if !ok || existing.CreatedBy != term.CreatedBy {
		return store.ErrTermNotFound
	}
	if m.taken(term.CreatedBy, term.Term, term.ID) {
		return store.ErrTermExists
	}
	term.UpdatedAt = time.Now().UTC()
	m.terms[term.ID] = *term
	return nil
}

// SetCategories implements store.TermStore.
func (m *MockTermStore) SetCategories(ctx context.Context, termID uuid.UUID, categoryIDs []uuid.UUID) error {
	if m.SetCategoriesFn != nil {
		return m.SetCategoriesFn(ctx, termID, categoryIDs)
	}
	m.links.set(termID, categoryIDs)
	return nil
}

// Delete implements store.TermStore.
func (m *MockTermStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.terms[id]
	if !ok || t.CreatedBy != ownerID {
		return store.ErrTermNotFound
	}
	delete(m.terms, id)
	m.links.drop(id)
	return nil
}

// WithTx implements store.TermStore and returns the mock itself.
func (m *MockTermStore) WithTx(*sql.Tx) store.TermStore {
	return m
}

var _ store.TermStore = (*MockTermStore)(nil)
