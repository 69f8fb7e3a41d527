package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/store"
)

// HashPrefix marks passwords "hashed" by MockUserStore.
const HashPrefix = "hashed:"

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn         func(ctx context.Context, user *domain.User) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn  func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn         func(ctx context.Context, user *domain.User) error
	ListWithCountsFn func(ctx context.Context) ([]domain.UserWithCounts, error)

	// Counts is returned for a user by the default ListWithCounts.
	Counts map[uuid.UUID]domain.ContentCounts

	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

// NewMockUserStore creates an empty store.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{
		Counts: map[uuid.UUID]domain.ContentCounts{},
		users:  map[uuid.UUID]domain.User{},
	}
	for _, u := range users {
		m.users[u.ID] = *u
	}
	return m
}

// Create implements store.UserStore. The password is replaced by HashPrefix+password.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(user); err != nil {
		return err
	}
	if user.Password != "" {
		user.HashedPassword = HashPrefix + user.Password
		user.Password = ""
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MockUserStore) conflict(user *domain.User) error {
	for _, u := range m.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.find(func(u domain.User) bool { return u.ID == id })
}

// GetByUsername implements store.UserStore.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return m.find(func(u domain.User) bool { return u.Username == username })
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *MockUserStore) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	if user.Password != "" {
		user.HashedPassword = HashPrefix + user.Password
		user.Password = ""
	} else {
		user.HashedPassword = existing.HashedPassword
	}
	m.users[user.ID] = *user
	return nil
}

// ListWithCounts implements store.UserStore, newest first.
func (m *MockUserStore) ListWithCounts(ctx context.Context) ([]domain.UserWithCounts, error) {
	if m.ListWithCountsFn != nil {
		return m.ListWithCountsFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserWithCounts, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, domain.UserWithCounts{User: u, Counts: m.Counts[u.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// WithTx implements store.UserStore and returns the mock itself.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

var _ store.UserStore = (*MockUserStore)(nil)
