package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// CreateUserInput is what an admin supplies to open an account.
// An empty Role means domain.RoleUser.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UserService provides the admin user operations.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns every user, newest first, with how many terms,
	// phrases and categories each one owns.
	ListUsers(ctx context.Context) ([]domain.UserWithCounts, error)

	// CreateUser validates and saves a new account.
	// Returns store.ErrUsernameExists or store.ErrEmailExists on conflicts.
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
	db        *sql.DB
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) (UserService, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, wrap("user", "get", err)
	}
	return user, nil
}

// ListUsers implements UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.UserWithCounts, error) {
	users, err := s.userStore.ListWithCounts(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", "error", err)
		return nil, wrap("user", "list", err)
	}
	return users, nil
}

// CreateUser creates the user inside a transaction. The store hashes the
// password before it is written.
func (s *UserServiceImpl) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(in.Username, in.Email, in.Password, in.Role)
	if err != nil {
		log.Debug("rejected new user", "error", err, "username", in.Username)
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Debug("attempted to create user with existing username or email",
				"username", user.Username,
				"email", user.Email)
		} else {
			log.Error("failed to save user to database",
				"error", err,
				"username", user.Username)
		}
		return nil, wrap("user", "create", err)
	}

	log.Info("user created successfully in transaction",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)
	return user, nil
}
