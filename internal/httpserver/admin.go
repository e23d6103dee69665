package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/service"
	"github.com/stockroom/stockroom/internal/transport"
	"github.com/stockroom/stockroom/pkg/logging"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_stats")

	stats, err := h.Svc.SystemStats(ctx)
	if err != nil {
		l.Error("get_stats_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot collect stats")
	}

	return c.JSON(http.StatusOK, transport.StatsResponse{
		TotalUsers:          stats.TotalUsers,
		TotalInventoryItems: stats.TotalInventoryItems,
		TotalInventoryValue: stats.TotalInventoryValue,
		Timestamp:           stats.Timestamp,
	})
}

func (h *AdminHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("get_users_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}

	out := make([]transport.UserResponse, len(users))
	for i := range users {
		out[i] = transport.UserFromModel(&users[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHTTP) PromoteUser(c echo.Context) error {
	return h.changeRole(c, "admin.promote_user", h.Svc.PromoteUser)
}

func (h *AdminHTTP) DemoteUser(c echo.Context) error {
	return h.changeRole(c, "admin.demote_user", h.Svc.DemoteUser)
}

func (h *AdminHTTP) changeRole(c echo.Context, handler string, apply func(context.Context, uuid.UUID) (*models.User, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("role_change_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	user, err := apply(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("role_change_failed", "status", 404, "reason", "user not found")
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("role_change_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot change role")
	}

	l.Info("role_change_success", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, transport.UserFromModel(user))
}
