package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/config"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func configWithSecret(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BcryptCost:                  bcrypt.MinCost,
	}
}

type fakeUsers struct {
	byName map[string]*domain.User
	err    error
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byName[username]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func newTestService(t *testing.T) (*Service, *fakeUsers, *domain.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &domain.User{
		ID:             uuid.New(),
		Username:       "admin",
		Email:          "admin@medicalapp.com",
		Role:           domain.RoleAdmin,
		HashedPassword: string(hash),
	}
	users := &fakeUsers{byName: map[string]*domain.User{"admin": admin}}

	tokens, err := NewJWTService(configWithSecret(testSecret))
	require.NoError(t, err)

	svc, err := NewService(users, tokens, NewBcryptVerifier(), nil)
	require.NoError(t, err)
	return svc, users, admin
}

func TestNewService_NilDependencies(t *testing.T) {
	t.Parallel()

	tokens, err := NewJWTService(configWithSecret(testSecret))
	require.NoError(t, err)

	_, err = NewService(nil, tokens, NewBcryptVerifier(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewService(&fakeUsers{}, nil, NewBcryptVerifier(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewService(&fakeUsers{}, tokens, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	svc, _, admin := newTestService(t)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, " admin ", "admin123")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, user.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.WithinDuration(t, time.Now().Add(time.Hour), pair.ExpiresAt, time.Minute)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "admin", "nope-nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost", "admin123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_LoginStoreFailure(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestService(t)
	users.err = errors.New("connection refused")

	_, _, err := svc.Login(context.Background(), "admin", "admin123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	svc, users, admin := newTestService(t)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	user, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	assert.NotEmpty(t, next.AccessToken)

	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	delete(users.byName, "admin")
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
