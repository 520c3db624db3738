package roles

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers read-only role routes for account management.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	roleService := NewService(db)

	h := &handler{
		roleService: roleService,
	}

	g := e.Group("/roles")
	g.Use(authMiddleware.Authenticate)
	g.Use(authMiddleware.RequirePermission(models.ResourceUsers, models.OperationUpdate))

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
