package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing.
type MockCategoryStore struct {
	CreateFn     func(ctx context.Context, category *domain.Category) error
	GetByIDFn    func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error)
	ListFn       func(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error)
	FindByNameFn func(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error)
	CountOwnedFn func(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error)
	UpdateFn     func(ctx context.Context, category *domain.Category) error
	DeleteFn     func(ctx context.Context, ownerID, id uuid.UUID) error

	mu         sync.Mutex
	categories map[uuid.UUID]domain.Category
	deleted    []func(id uuid.UUID)
}

// NewMockCategoryStore creates a store holding categories.
func NewMockCategoryStore(categories ...*domain.Category) *MockCategoryStore {
	m := &MockCategoryStore{categories: map[uuid.UUID]domain.Category{}}
	for _, c := range categories {
		m.categories[c.ID] = *c
	}
	return m
}

// Create implements store.CategoryStore.
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	if err := category.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(category) {
		return store.ErrCategoryExists
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *MockCategoryStore) nameTaken(category *domain.Category) bool {
	for _, c := range m.categories {
		if c.ID != category.ID && c.CreatedBy == category.CreatedBy && strings.EqualFold(c.Name, category.Name) {
			return true
		}
	}
	return false
}

// GetByID implements store.CategoryStore.
func (m *MockCategoryStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || c.CreatedBy != ownerID {
		return nil, store.ErrCategoryNotFound
	}
	return &c, nil
}

// List implements store.CategoryStore, ordered by name.
func (m *MockCategoryStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, c := range m.categories {
		if c.CreatedBy == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByName implements store.CategoryStore.
func (m *MockCategoryStore) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Category, error) {
	if m.FindByNameFn != nil {
		return m.FindByNameFn(ctx, ownerID, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.CreatedBy == ownerID && strings.EqualFold(c.Name, name) {
			found := c
			return &found, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

// CountOwned implements store.CategoryStore.
func (m *MockCategoryStore) CountOwned(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error) {
	if m.CountOwnedFn != nil {
		return m.CountOwnedFn(ctx, ownerID, ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if c, ok := m.categories[id]; ok && c.CreatedBy == ownerID {
			seen[id] = true
		}
	}
	return len(seen), nil
}

// Update implements store.CategoryStore.
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[category.ID]
	if !ok || existing.CreatedBy != category.CreatedBy {
		return store.ErrCategoryNotFound
	}
	if m.nameTaken(category) {
		return store.ErrCategoryExists
	}
	category.UpdatedAt = time.Now().UTC()
	m.categories[category.ID] = *category
	return nil
}

// Delete implements store.CategoryStore. Links held by term and phrase
// mocks sharing this store are removed too.
func (m *MockCategoryStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	c, ok := m.categories[id]
	if !ok || c.CreatedBy != ownerID {
		m.mu.Unlock()
		return store.ErrCategoryNotFound
	}
	delete(m.categories, id)
	hooks := append([]func(uuid.UUID){}, m.deleted...)
	m.mu.Unlock()

	for _, unlink := range hooks {
		unlink(id)
	}
	return nil
}

// WithTx implements store.CategoryStore and returns the mock itself.
func (m *MockCategoryStore) WithTx(*sql.Tx) store.CategoryStore {
	return m
}

// resolve returns the stored categories for ids, ordered by name.
func (m *MockCategoryStore) resolve(ids []uuid.UUID) []domain.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *MockCategoryStore) onDelete(unlink func(uuid.UUID)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, unlink)
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)
