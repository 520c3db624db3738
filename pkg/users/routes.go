package users

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers account management routes. All of them are
// librarian-only.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	g := e.Group("/users")
	g.Use(authMiddleware.Authenticate)

	g.GET("", h.list,
		authMiddleware.RequirePermission(models.ResourceUsers, models.OperationUpdate))
	g.GET("/:id", h.retrieve,
		authMiddleware.RequirePermission(models.ResourceUsers, models.OperationUpdate))
	g.POST("", h.create,
		authMiddleware.RequirePermission(models.ResourceUsers, models.OperationCreate))
	g.PUT("/:id", h.update,
		authMiddleware.RequirePermission(models.ResourceUsers, models.OperationUpdate))
	g.POST("/:id/reset-password", h.resetPassword,
		authMiddleware.RequirePermission(models.ResourceUsers, models.OperationUpdate))
	g.DELETE("/:id", h.deactivate,
		authMiddleware.RequirePermission(models.ResourceUsers, models.OperationDelete))
}
