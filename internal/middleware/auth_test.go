package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, secret string, admin bool) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return c, h(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := issueToken(t, testSecret, false)

	c, err := runAuth(t, "Bearer "+token, AuthMiddleware(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "user-1", UserID(c))
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "", AuthMiddleware(testSecret))

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token := issueToken(t, "other-secret", false)

	_, err := runAuth(t, "Bearer "+token, AuthMiddleware(testSecret))

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = runAuth(t, "Bearer "+signed, AuthMiddleware(testSecret))

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminOnly(t *testing.T) {
	adminToken := issueToken(t, testSecret, true)
	_, err := runAuth(t, "Bearer "+adminToken, AuthMiddleware(testSecret), AdminOnly())
	assert.NoError(t, err)

	userToken := issueToken(t, testSecret, false)
	_, err = runAuth(t, "Bearer "+userToken, AuthMiddleware(testSecret), AdminOnly())

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
