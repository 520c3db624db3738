package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	genreService := NewService(db)

	h := &handler{
		genreService: genreService,
	}

	g.GET("/genres/", h.list)
	g.GET("/genres/:id/", h.retrieve)
	g.POST("/genres/", h.create,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceGenres, models.OperationCreate))
}
