package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"admin","password":"secret123"}`))
		var body loginBody
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &body))
		assert.Equal(t, loginBody{Username: "admin", Password: "secret123"}, body)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var body loginBody
		assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &body), ErrEmptyBody)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))
		var body loginBody
		err := DecodeJSON(httptest.NewRecorder(), req, &body)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyBody)
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(loginBody{Username: "admin", Password: "secret123"}))

	err := ValidateRequest(loginBody{Password: "short"})
	require.Error(t, err)
	// Errors name the json field, not the Go field.
	assert.Contains(t, err.Error(), "'username'")
	assert.Contains(t, err.Error(), "'password'")
}
