package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/authors"
	"github.com/openlibrarian/openlibrarian/pkg/books"
	"github.com/openlibrarian/openlibrarian/pkg/genres"
	"github.com/openlibrarian/openlibrarian/pkg/loans"
	"github.com/openlibrarian/openlibrarian/pkg/sessions"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the catalog home page on the group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		authorService:  authors.NewService(db),
		bookService:    books.NewService(db),
		genreService:   genres.NewService(db),
		loanService:    loans.NewService(db),
		sessionService: sessions.NewService(db),
	}

	g.GET("/", h.index)
}
