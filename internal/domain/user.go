package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Password and username limits. 72 bytes is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxUsernameLength = 50
)

// User validation errors. All of them wrap ErrValidation.
var (
	ErrEmptyUserID      = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyUsername    = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooLong  = fmt.Errorf("%w: username must be at most %d characters long", ErrValidation, MaxUsernameLength)
	ErrEmptyEmail       = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must be at most %d characters long", ErrValidation, MaxPasswordLength)
	ErrEmptyPassword    = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrInvalidRole      = fmt.Errorf("%w: role must be admin or user", ErrValidation)
)

var emailValidator = validator.New()

// Role controls access to administrative endpoints.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account that owns terms, phrases and categories.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Password       string    `json:"-"` // plaintext, only set while creating or changing a password
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ContentCounts is the number of records a user owns, shown in the admin listing.
type ContentCounts struct {
	Terms      int `json:"terms"`
	Phrases    int `json:"phrases"`
	Categories int `json:"categories"`
}

// UserWithCounts pairs a user with its content counts.
type UserWithCounts struct {
	User
	Counts ContentCounts `json:"counts"`
}

// NewUser creates a validated User with a fresh ID.
// An empty role defaults to RoleUser. The caller must hash Password before storage.
func NewUser(username, email, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if emailValidator.Var(u.Email, "email") != nil {
		return ErrInvalidEmail
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
