package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/models"
)

// Full-router tests: requests travel through the auth middleware, so the
// bearer token decides who the caller is.
func newRouterEnv(t *testing.T) *testEnv {
	t.Helper()

	env := newTestEnv(t)
	Register(env.E, &Deps{
		AuthHandler:      env.Auth,
		InventoryHandler: env.Inventory,
		AdminHandler:     env.Admin,
		JWTSecret:        env.Repo.JWTSecret,
	})
	return env
}

func (env *testEnv) serve(method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) accessToken(t *testing.T, user *models.User) string {
	t.Helper()

	svc := env.Auth.Svc
	token, err := svc.CreateAccessToken(user.Role, user.ID.String(), time.Now().Add(15*time.Minute))
	require.NoError(t, err)
	return token
}

func TestRouter_ItemsRequireLogin(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.serve(http.MethodGet, "/items", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.serve(http.MethodGet, "/items", "garbage-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminRoutesRejectShopOwners(t *testing.T) {
	env := newRouterEnv(t)
	owner := env.createUser(t, "owner@shop.test", models.RoleShopOwner)
	admin := env.createUser(t, "admin@shop.test", models.RoleAdmin)

	rec := env.serve(http.MethodGet, "/admin/stats", env.accessToken(t, owner))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.serve(http.MethodGet, "/admin/stats", env.accessToken(t, admin))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_TokenResolvesCaller(t *testing.T) {
	env := newRouterEnv(t)
	alice := env.createUser(t, "alice@shop.test", models.RoleShopOwner)
	bob := env.createUser(t, "bob@shop.test", models.RoleShopOwner)
	env.createItem(t, alice, "Nike Shoes", 10)

	rec := env.serve(http.MethodGet, "/items", env.accessToken(t, alice))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Nike Shoes")

	rec = env.serve(http.MethodGet, "/items", env.accessToken(t, bob))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Nike Shoes")
}

func TestRouter_HealthEndpoints(t *testing.T) {
	env := newRouterEnv(t)

	require.Equal(t, http.StatusOK, env.serve(http.MethodGet, "/health/live", "").Code)
	require.Equal(t, http.StatusOK, env.serve(http.MethodGet, "/health/ready", "").Code)
}
