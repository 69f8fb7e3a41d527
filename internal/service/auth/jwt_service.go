package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medlex/medlex-api/internal/domain"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token carrying the user's ID, username and role.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates an access token and extracts its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token with a longer lifetime.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateRefreshToken validates a refresh token and extracts its claims.
	// Returns ErrExpiredRefreshToken, ErrInvalidRefreshToken or ErrWrongTokenType on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime is how long an access token stays valid. Used for cookie expiry.
	AccessTokenLifetime() time.Duration
}

// Claims is what a validated token says about its bearer.
type Claims struct {
	UserID    uuid.UUID   `json:"userId"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	TokenType string      `json:"type"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// IsAdmin reports whether the bearer holds the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
