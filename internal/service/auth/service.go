package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// UserLookup is the slice of store.UserStore that login and refresh need.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenPair is issued by Login and Refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service authenticates users and issues token pairs.
type Service struct {
	users    UserLookup
	tokens   JWTService
	verifier PasswordVerifier
	timeFunc func() time.Time
	logger   *slog.Logger
}

// NewService wires the auth service. A nil logger falls back to slog.Default.
func NewService(users UserLookup, tokens JWTService, verifier PasswordVerifier, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Login checks the credentials and returns the user with a fresh token pair.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if errors.Is(err, store.ErrUserNotFound) {
		user = nil
	}

	if err := verifyUserPassword(s.verifier, user, password); err != nil {
		log.Info("login rejected", slog.String("username", username))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// reloaded so a changed role or username is reflected in the new tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// CurrentUser loads the account behind validated claims.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*domain.User, error) {
	return s.users.GetByID(ctx, claims.UserID)
}

// AccessTokenLifetime is how long tokens issued by this service stay valid.
func (s *Service) AccessTokenLifetime() time.Duration {
	return s.tokens.AccessTokenLifetime()
}

func (s *Service) issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.timeFunc().Add(s.tokens.AccessTokenLifetime()).UTC(),
	}, nil
}
