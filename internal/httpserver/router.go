package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/stockroom/internal/models"
	mwauth "github.com/stockroom/stockroom/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	InventoryHandler *InventoryHTTP
	AdminHandler     *AdminHTTP
	JWTSecret        []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := &mwauth.Middleware{JWTSecret: d.JWTSecret, AdminRole: models.RoleAdmin}

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)

	items := e.Group("/items", mw.RequireLogin)
	items.GET("", d.InventoryHandler.GetItems)
	items.POST("", d.InventoryHandler.CreateItem)
	items.POST("/stock", d.InventoryHandler.UpdateStock)
	items.GET("/:id", d.InventoryHandler.GetItem)
	items.PUT("/:id", d.InventoryHandler.UpdateItem)
	items.DELETE("/:id", d.InventoryHandler.DeleteItem)
	items.GET("/:id/history", d.InventoryHandler.GetHistory)

	admin := e.Group("/admin", mw.RequireAdmin)
	admin.GET("/stats", d.AdminHandler.GetStats)
	admin.GET("/users", d.AdminHandler.GetUsers)
	admin.POST("/promote/:id", d.AdminHandler.PromoteUser)
	admin.POST("/demote/:id", d.AdminHandler.DemoteUser)
}
