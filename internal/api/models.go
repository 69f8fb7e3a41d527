package api

import (
	"time"

	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/flashcard"
	"github.com/medlex/medlex-api/internal/service/auth"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	// AccessToken is the JWT used for API authorization. It is also set
	// as the token cookie.
	AccessToken string `json:"token"`

	// RefreshToken is exchanged for a new pair at /api/auth/refresh.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 time the access token expires.
	ExpiresAt string `json:"expires_at"`

	User UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	Counts    *UserCounts `json:"_count,omitempty"`
}

// UserCounts is how much content a user owns, shown in the admin listing.
type UserCounts struct {
	Terms      int `json:"terms"`
	Phrases    int `json:"phrases"`
	Categories int `json:"categories"`
}

// CreateUserRequest defines the payload for the admin user creation endpoint.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

// TermRequest is the body of term create and update requests.
type TermRequest struct {
	Term          string   `json:"term"          validate:"required,max=255"`
	Meaning       string   `json:"meaning"       validate:"required"`
	Pronunciation string   `json:"pronunciation" validate:"max=255"`
	CategoryIDs   []string `json:"categoryIds"   validate:"omitempty,dive,uuid"`
}

// PhraseRequest is the body of phrase create and update requests.
type PhraseRequest struct {
	Phrase      string   `json:"phrase"      validate:"required,max=500"`
	Explanation string   `json:"explanation" validate:"required"`
	CategoryIDs []string `json:"categoryIds" validate:"omitempty,dive,uuid"`
}

// CategoryRequest is the body of category create and update requests.
// An empty color picks a palette color on create and keeps the current one on update.
type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
}

// TermImportRequest is the body of POST /api/terms/import. Items missing a
// term or meaning are skipped rather than rejected.
type TermImportRequest struct {
	GlobalCategories []string         `json:"globalCategories"`
	Items            []TermImportItem `json:"items"            validate:"required"`
}

// TermImportItem is one term of an import.
type TermImportItem struct {
	Term          string   `json:"term"`
	Meaning       string   `json:"meaning"`
	Pronunciation string   `json:"pronunciation,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

// PhraseImportRequest is the body of POST /api/phrases/import.
type PhraseImportRequest struct {
	GlobalCategories []string           `json:"globalCategories"`
	Items            []PhraseImportItem `json:"items"            validate:"required"`
}

// PhraseImportItem is one phrase of an import.
type PhraseImportItem struct {
	Phrase      string   `json:"phrase"`
	Explanation string   `json:"explanation"`
	Categories  []string `json:"categories,omitempty"`
}

// ImportResponse reports the outcome of an import.
type ImportResponse[T any] struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Data     []T `json:"data"`
}

// FlashcardsResponse is the server-built card catalog.
type FlashcardsResponse struct {
	Cards      []flashcard.Item  `json:"cards"`
	Categories []domain.Category `json:"categories"`
	Total      int               `json:"total"`

	// Unavailable lists the collections that could not be loaded.
	Unavailable []string `json:"unavailable,omitempty"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func userWithCountsToResponse(u domain.UserWithCounts) UserResponse {
	resp := userToResponse(&u.User)
	resp.Counts = &UserCounts{
		Terms:      u.Counts.Terms,
		Phrases:    u.Counts.Phrases,
		Categories: u.Counts.Categories,
	}
	return resp
}

func authToResponse(user *domain.User, pair *auth.TokenPair) AuthResponse {
	return AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Format(time.RFC3339),
		User:         userToResponse(user),
	}
}
