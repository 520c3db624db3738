package loans

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers loan routes on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	loanService := NewService(db)

	h := &handler{
		loanService: loanService,
	}

	g.GET("/mybooks/", h.myBooks, authMiddleware.Authenticate)
	g.GET("/books/:id/renew/", h.renewForm,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.POST("/books/:id/renew/", h.renew,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.POST("/books/:id/return/", h.markReturned,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceLoans, models.OperationReturn))
	g.POST("/instances/", h.createInstance,
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceBooks, models.OperationCreate))
}
