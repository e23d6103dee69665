package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/transport"
)

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@shop.test", models.RoleAdmin)
	owner := env.createUser(t, "owner@shop.test", models.RoleShopOwner)
	env.createItem(t, owner, "Nike Shoes", 10)

	rec, c := env.doJSONRequest(admin, http.MethodGet, "/admin/stats", nil)
	require.NoError(t, env.Admin.GetStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp.TotalUsers)
	require.EqualValues(t, 1, resp.TotalInventoryItems)
	require.InDelta(t, 99.9, resp.TotalInventoryValue, 1e-9)
}

func TestAdminUsers_OmitsPasswordHashes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@shop.test", models.RoleAdmin)
	env.createUser(t, "owner@shop.test", models.RoleShopOwner)

	rec, c := env.doJSONRequest(admin, http.MethodGet, "/admin/users", nil)
	require.NoError(t, env.Admin.GetUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []transport.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestAdminPromoteDemote(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@shop.test", models.RoleAdmin)
	owner := env.createUser(t, "owner@shop.test", models.RoleShopOwner)

	rec, c := env.doJSONRequest(admin, http.MethodPost, "/admin/promote/"+owner.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(owner.ID.String())
	require.NoError(t, env.Admin.PromoteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.RoleAdmin, resp.Role)

	rec, c = env.doJSONRequest(admin, http.MethodPost, "/admin/demote/"+owner.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(owner.ID.String())
	require.NoError(t, env.Admin.DemoteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.RoleShopOwner, resp.Role)
}

func TestAdminPromote_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@shop.test", models.RoleAdmin)

	unknown := uuid.NewString()
	_, c := env.doJSONRequest(admin, http.MethodPost, "/admin/promote/"+unknown, nil)
	c.SetParamNames("id")
	c.SetParamValues(unknown)
	requireHTTPError(t, env.Admin.PromoteUser(c), http.StatusNotFound)
}
