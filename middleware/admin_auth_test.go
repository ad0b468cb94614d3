package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminEcho(verify TokenVerifier) *echo.Echo {
	e := echo.New()
	g := e.Group("/admin")
	g.Use(AdminAuth(verify))
	g.GET("/dashboard", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func TestEnvTokenVerifier(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("ADMIN_TOKEN_HASH", "")

	verify := EnvTokenVerifier()

	assert.True(t, verify("s3cret"))
	assert.False(t, verify("wrong"))
	assert.False(t, verify(""))
}

func TestEnvTokenVerifierNothingConfigured(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "")
	t.Setenv("ADMIN_TOKEN_HASH", "")

	verify := EnvTokenVerifier()

	assert.False(t, verify("anything"))
}

func TestAdminAuthAcceptsHeaderToken(t *testing.T) {
	e := adminEcho(func(token string) bool { return token == "s3cret" })

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("x-admin-token", "s3cret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthRejectsBadToken(t *testing.T) {
	e := adminEcho(func(token string) bool { return token == "s3cret" })

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("x-admin-token", "nope")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestAdminAuthRejectsMissingCredentials(t *testing.T) {
	e := adminEcho(func(token string) bool { return true })

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthAcceptsSessionToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-signing-key")
	e := adminEcho(func(token string) bool { return false })

	sessionToken, err := IssueAdminToken()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthRejectsForgedSessionToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-signing-key")
	sessionToken, err := IssueAdminToken()
	require.NoError(t, err)

	// token signed with a different key must be rejected
	t.Setenv("JWT_SECRET", "rotated-key")
	e := adminEcho(func(token string) bool { return false })

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
