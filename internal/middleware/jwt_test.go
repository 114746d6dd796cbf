package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const testSecret = "s3cret"

func newCtx(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func tokenFor(t *testing.T, id utils.Identity) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, id, 5)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuth(t *testing.T) {
	var seen utils.Identity
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		seen, _ = CurrentIdentity(c)
		assert.Equal(t, "7", CurrentUserID(c))
		assert.False(t, IsAdmin(c))
		return c.NoContent(http.StatusOK)
	})

	c, rec := newCtx(t, tokenFor(t, utils.Identity{ID: "7", Name: "Ana", Role: model.RoleCustomer}))
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana", seen.Name)

	c, rec = newCtx(t, "")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newCtx(t, "garbage")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWT(t *testing.T) {
	h := OptionalJWT(testSecret)(func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentUserID(c))
	})

	c, rec := newCtx(t, "")
	require.NoError(t, h(c))
	assert.Equal(t, model.GuestUserID, rec.Body.String())

	c, rec = newCtx(t, tokenFor(t, utils.Identity{ID: "9", Role: model.RoleCustomer}))
	require.NoError(t, h(c))
	assert.Equal(t, "9", rec.Body.String())

	c, rec = newCtx(t, "garbage")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := JWTAuth(testSecret)(RequireRole(model.RoleAdmin)(func(c echo.Context) error {
		assert.True(t, IsAdmin(c))
		return c.NoContent(http.StatusOK)
	}))

	c, rec := newCtx(t, tokenFor(t, utils.Identity{ID: "1", Role: model.RoleAdmin}))
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newCtx(t, tokenFor(t, utils.Identity{ID: "2", Role: model.RoleCustomer}))
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
