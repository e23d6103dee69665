package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stockroom/stockroom/pkg/tokens"
)

const (
	callerIDKey = "callerID"
	roleKey     = "role"
)

// Middleware resolves the bearer token once at the HTTP boundary and hands
// the domain layer an explicit caller id; handlers never parse credentials.
type Middleware struct {
	JWTSecret []byte
	AdminRole string
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		callerID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}

		c.Set(callerIDKey, callerID)
		c.Set(roleKey, claims.Role)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireLogin(func(c echo.Context) error {
		if Role(c) != m.AdminRole {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	})
}

func CallerID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(callerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func Role(c echo.Context) string {
	if role, ok := c.Get(roleKey).(string); ok {
		return role
	}
	return ""
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
