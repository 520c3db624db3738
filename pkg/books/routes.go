package books

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on the catalog group. Listing
// and detail pages are public; mutations need the matching capability.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	g.GET("/books/", h.list)
	g.GET("/books/:id/", h.retrieve)
	g.POST("/books/", h.create,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBooks, models.OperationCreate))
	g.PUT("/books/:id/", h.update,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBooks, models.OperationUpdate))
	g.DELETE("/books/:id/", h.delete,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBooks, models.OperationDelete))
}
