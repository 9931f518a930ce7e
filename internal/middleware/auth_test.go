package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"northwind-service/internal/model"
	"northwind-service/pkg/config"
	"northwind-service/pkg/jwtutil"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "middleware-test-key", ExpirationMinutes: 60})
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func doRequest(t *testing.T, handler echo.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler(c))
	return rec
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	rec := doRequest(t, AuthMiddleware(okHandler), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	for _, header := range []string{"Basic abc123", "Bearer", "Bearer a b"} {
		rec := doRequest(t, AuthMiddleware(okHandler), header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	rec := doRequest(t, AuthMiddleware(okHandler), "Bearer not-a-real-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, _, err := jwtutil.GenerateToken("user@northwind.com", 2, []string{model.RoleUser})
	require.NoError(t, err)

	var gotRoles []string
	handler := AuthMiddleware(func(c echo.Context) error {
		roles, ok := RolesFromContext(c)
		require.True(t, ok)
		gotRoles = roles
		require.Equal(t, "user@northwind.com", c.Get("email"))
		require.Equal(t, uint(2), c.Get("user_id"))
		return okHandler(c)
	})

	rec := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{model.RoleUser}, gotRoles)
}

func TestRequireRoleForbidsNonAdmins(t *testing.T) {
	token, _, err := jwtutil.GenerateToken("user@northwind.com", 2, []string{model.RoleUser})
	require.NoError(t, err)

	// The role check fires before the handler runs, so a non-admin gets 403
	// regardless of whether the target exists.
	handlerRan := false
	handler := AuthMiddleware(RequireRole(model.RoleAdmin)(func(c echo.Context) error {
		handlerRan = true
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}))

	rec := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, handlerRan)
}

func TestRequireRoleAdmitsAdmins(t *testing.T) {
	token, _, err := jwtutil.GenerateToken("admin@northwind.com", 1, []string{model.RoleAdmin, model.RoleUser})
	require.NoError(t, err)

	handler := AuthMiddleware(RequireRole(model.RoleAdmin)(okHandler))
	rec := doRequest(t, handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	rec := doRequest(t, RequireRole(model.RoleAdmin)(okHandler), "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
