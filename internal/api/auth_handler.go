package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/medlex/medlex-api/internal/api/middleware"
	"github.com/medlex/medlex-api/internal/api/shared"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/service/auth"
)

// Authenticator is the part of auth.Service the handlers use.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *auth.TokenPair, error)
	CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error)
	AccessTokenLifetime() time.Duration
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	auth         Authenticator
	cookieSecure bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. cookieSecure marks the token
// cookie Secure and should only be off for local HTTP development.
func NewAuthHandler(authenticator Authenticator, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		auth:         authenticator,
		cookieSecure: cookieSecure,
		logger:       logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, shared.WithElevatedLogLevel())
		return
	}

	h.setTokenCookie(w, pair.AccessToken, h.auth.AccessTokenLifetime())
	shared.RespondWithData(w, r, http.StatusOK, authToResponse(user, pair), "Login successful")
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.setTokenCookie(w, pair.AccessToken, h.auth.AccessTokenLifetime())
	shared.RespondWithData(w, r, http.StatusOK, authToResponse(user, pair), "")
}

// Logout handles POST /api/auth/logout by expiring the token cookie.
// Tokens are stateless, so a client holding one can still use it until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	shared.RespondWithData(w, r, http.StatusOK, nil, "Logged out successfully")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := middleware.GetClaims(r)
	if !ok {
		log.Warn("claims not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), claims)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user), "")
}

// setTokenCookie writes the HttpOnly token cookie. A negative maxAge deletes it.
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     shared.TokenCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
