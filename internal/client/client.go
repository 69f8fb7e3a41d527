// Package client is the terminal client's view of the medlex HTTP API. It
// handles the JSON envelope and bearer authentication, and implements
// flashcard.ContentSource so the study engine can run against a server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medlex/medlex-api/internal/api"
	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/flashcard"
	"github.com/medlex/medlex-api/internal/redact"
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

// ErrUnauthorized is wrapped by APIError for 401 responses.
var ErrUnauthorized = errors.New("not logged in or session expired")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("server returned %d: %s (trace %s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns ErrUnauthorized for 401 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// envelope is the shape of every API response body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	TraceID string          `json:"trace_id"`
}

// Client talks to one medlex server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	logger     *slog.Logger
}

var _ flashcard.ContentSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithToken authenticates requests with an access token obtained earlier.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "api_client"))
	return c, nil
}

// Token is the current access token, empty when not logged in.
func (c *Client) Token() string {
	return c.token
}

// Login exchanges credentials for a token pair and authenticates later requests.
func (c *Client) Login(ctx context.Context, username, password string) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	req := api.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// Logout tells the server to clear its cookie and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var user api.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchTerms implements flashcard.ContentSource.
func (c *Client) FetchTerms(ctx context.Context) ([]domain.Term, error) {
	var terms []domain.Term
	if err := c.do(ctx, http.MethodGet, "/api/terms", nil, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// FetchPhrases implements flashcard.ContentSource.
func (c *Client) FetchPhrases(ctx context.Context) ([]domain.Phrase, error) {
	var phrases []domain.Phrase
	if err := c.do(ctx, http.MethodGet, "/api/phrases", nil, &phrases); err != nil {
		return nil, err
	}
	return phrases, nil
}

// FetchCategories implements flashcard.ContentSource.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ImportTerms uploads a batch of terms.
func (c *Client) ImportTerms(ctx context.Context, req api.TermImportRequest) (*api.ImportResponse[domain.Term], error) {
	var resp api.ImportResponse[domain.Term]
	if err := c.do(ctx, http.MethodPost, "/api/terms/import", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImportPhrases uploads a batch of phrases.
func (c *Client) ImportPhrases(
	ctx context.Context,
	req api.PhraseImportRequest,
) (*api.ImportResponse[domain.Phrase], error) {
	var resp api.ImportResponse[domain.Phrase]
	if err := c.do(ctx, http.MethodPost, "/api/phrases/import", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends body as JSON and decodes the envelope's data into out. out and
// body may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", redact.Error(err)))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, TraceID: env.TraceID}
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: malformed response: %w", method, path, decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: unexpected response data: %w", method, path, err)
	}
	return nil
}
