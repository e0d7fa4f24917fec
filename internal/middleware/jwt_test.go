package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahirathood/movie-ticket-booking/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var userID interface{}
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		userID = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, userID
}

func TestJWTAuth(t *testing.T) {
	t.Run("accepts a valid token and injects the subject", func(t *testing.T) {
		access, err := utils.NewAccessToken(testSecret, 42, 15)
		require.NoError(t, err)

		rec, userID := runJWT(t, "Bearer "+access.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		// Numeric claims decode as float64.
		assert.Equal(t, float64(42), userID)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		rec, _ := runJWT(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		rec, _ := runJWT(t, "Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		access, err := utils.NewAccessToken("other-secret", 42, 15)
		require.NoError(t, err)

		rec, _ := runJWT(t, "Bearer "+access.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		access, err := utils.NewAccessToken(testSecret, 42, -5)
		require.NoError(t, err)

		rec, _ := runJWT(t, "Bearer "+access.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		rec, _ := runJWT(t, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
