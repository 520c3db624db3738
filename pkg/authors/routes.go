package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	authorService := NewService(db)

	h := &handler{
		authorService: authorService,
	}

	g.GET("/authors/", h.list)
	g.GET("/authors/:id/", h.retrieve)
	g.POST("/authors/", h.create,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceAuthors, models.OperationCreate))
	g.PUT("/authors/:id/", h.update,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceAuthors, models.OperationUpdate))
	g.DELETE("/authors/:id/", h.delete,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceAuthors, models.OperationDelete))

	// Form-post aliases for the classic author admin paths, so browser
	// forms without method overrides keep working.
	g.POST("/authors/create/", h.create,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceAuthors, models.OperationCreate))
	g.POST("/authors/:id/update/", h.update,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceAuthors, models.OperationUpdate))
	g.POST("/authors/:id/delete/", h.delete,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceAuthors, models.OperationDelete))
}
