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

// MockPhraseStore implements store.PhraseStore for testing. Categories are
// resolved through the MockCategoryStore it was created with.
type MockPhraseStore struct {
	CreateFn        func(ctx context.Context, phrase *domain.Phrase) error
	GetByIDFn       func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Phrase, error)
	ListFn          func(ctx context.Context, ownerID uuid.UUID) ([]domain.Phrase, error)
	ExistsByTextFn  func(ctx context.Context, ownerID uuid.UUID, text string, excludeID uuid.UUID) (bool, error)
	UpdateFn        func(ctx context.Context, phrase *domain.Phrase) error
	SetCategoriesFn func(ctx context.Context, phraseID uuid.UUID, categoryIDs []uuid.UUID) error
	DeleteFn        func(ctx context.Context, ownerID, id uuid.UUID) error

	mu         sync.Mutex
	phrases    map[uuid.UUID]domain.Phrase
	links      *links
	categories *MockCategoryStore
}

// NewMockPhraseStore creates an empty store. categories may be nil.
func NewMockPhraseStore(categories *MockCategoryStore) *MockPhraseStore {
	return &MockPhraseStore{
		phrases:    map[uuid.UUID]domain.Phrase{},
		links:      newLinks(categories),
		categories: categories,
	}
}

// Create implements store.PhraseStore.
func (m *MockPhraseStore) Create(ctx context.Context, phrase *domain.Phrase) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, phrase)
	}
	if err := phrase.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken(phrase.CreatedBy, phrase.Phrase, phrase.ID) {
		return store.ErrPhraseExists
	}
	m.phrases[phrase.ID] = *phrase
	return nil
}

func (m *MockPhraseStore) taken(ownerID uuid.UUID, text string, excludeID uuid.UUID) bool {
	for _, t := range m.phrases {
		if t.ID != excludeID && t.CreatedBy == ownerID && t.Phrase == text {
			return true
		}
	}
	return false
}

func (m *MockPhraseStore) hydrate(t domain.Phrase) domain.Phrase {
	t.Categories = []domain.Category{}
	if m.categories != nil {
		t.Categories = m.categories.resolve(m.links.get(t.ID))
	}
	return t
}

// GetByID implements store.PhraseStore.
func (m *MockPhraseStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Phrase, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	t, ok := m.phrases[id]
	m.mu.Unlock()
	if !ok || t.CreatedBy != ownerID {
		return nil, store.ErrPhraseNotFound
	}
	t = m.hydrate(t)
	return &t, nil
}

// List implements store.PhraseStore, newest first.
func (m *MockPhraseStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Phrase, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID)
	}

	m.mu.Lock()
	out := []domain.Phrase{}
	for _, t := range m.phrases {
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

// ExistsByText implements store.PhraseStore.
func (m *MockPhraseStore) ExistsByText(
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

// Update implements store.PhraseStore.
func (m *MockPhraseStore) Update(ctx context.Context, phrase *domain.Phrase) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, phrase)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.phrases[phrase.ID]
	if !ok || existing.CreatedBy != phrase.CreatedBy {
		return store.ErrPhraseNotFound
	}
	if m.taken(phrase.CreatedBy, phrase.Phrase, phrase.ID) {
		return store.ErrPhraseExists
	}
	phrase.UpdatedAt = time.Now().UTC()
	m.phrases[phrase.ID] = *phrase
	return nil
}

// SetCategories implements store.PhraseStore.
func (m *MockPhraseStore) SetCategories(ctx context.Context, phraseID uuid.UUID, categoryIDs []uuid.UUID) error {
	if m.SetCategoriesFn != nil {
		return m.SetCategoriesFn(ctx, phraseID, categoryIDs)
	}
	m.links.set(phraseID, categoryIDs)
	return nil
}

// Delete implements store.PhraseStore.
func (m *MockPhraseStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.phrases[id]
	if !ok || t.CreatedBy != ownerID {
		return store.ErrPhraseNotFound
	}
	delete(m.phrases, id)
	m.links.drop(id)
	return nil
}

// WithTx implements store.PhraseStore and returns the mock itself.
func (m *MockPhraseStore) WithTx(*sql.Tx) store.PhraseStore {
	return m
}

var _ store.PhraseStore = (*MockPhraseStore)(nil)
