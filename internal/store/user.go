package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user, hashing user.Password into HashedPassword.
	// Returns ErrUsernameExists or ErrEmailExists on conflicts.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update replaces username, email, role and, when user.Password is set,
	// the password hash. Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// ListWithCounts returns every user, newest first, with the number of
	// terms, phrases and categories each one owns.
	ListWithCounts(ctx context.Context) ([]domain.UserWithCounts, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
