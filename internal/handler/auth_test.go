package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahirathood/movie-ticket-booking/internal/config"
)

func testAuthHandler() *AuthHandler {
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	return NewAuthHandler(cfg, nil, nil)
}

// Validation happens before any repository access, so these cases run
// without a database.

func TestSignupValidation(t *testing.T) {
	h := testAuthHandler()

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing password", `{"username":"alice"}`},
		{"missing username", `{"password":"s3cret"}`},
		{"blank username", `{"username":"   ","password":"s3cret"}`},
		{"malformed json", `{"username":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(h.Signup, http.MethodPost, "/v1/auth/signup", tc.body, 0)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_body", errorCode(t, rec))
		})
	}
}

func TestLoginValidation(t *testing.T) {
	h := testAuthHandler()

	rec := doRequest(h.Login, http.MethodPost, "/v1/auth/login", `{"username":"alice"}`, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", errorCode(t, rec))
}

func TestRefreshValidation(t *testing.T) {
	h := testAuthHandler()

	rec := doRequest(h.Refresh, http.MethodPost, "/v1/auth/refresh", `{}`, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", errorCode(t, rec))
}

func TestLogoutRequiresCredentials(t *testing.T) {
	h := testAuthHandler()

	rec := doRequest(h.Logout, http.MethodPost, "/v1/auth/logout", `{}`, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", errorCode(t, rec))
}
