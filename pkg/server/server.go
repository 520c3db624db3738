package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/authors"
	"github.com/openlibrarian/openlibrarian/pkg/binder"
	"github.com/openlibrarian/openlibrarian/pkg/books"
	"github.com/openlibrarian/openlibrarian/pkg/catalog"
	"github.com/openlibrarian/openlibrarian/pkg/config"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/genres"
	"github.com/openlibrarian/openlibrarian/pkg/loans"
	"github.com/openlibrarian/openlibrarian/pkg/roles"
	"github.com/openlibrarian/openlibrarian/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, authMiddleware)

	// Everything the library serves lives under /catalog. Listing and detail
	// pages are public; the loan lifecycle and catalog mutations carry their
	// own auth middleware.
	catalogGroup := e.Group("/catalog")
	catalog.RegisterRoutesWithGroup(catalogGroup, db)
	books.RegisterRoutesWithGroup(catalogGroup, db, authMiddleware)
	authors.RegisterRoutesWithGroup(catalogGroup, db, authMiddleware)
	genres.RegisterRoutesWithGroup(catalogGroup, db, authMiddleware)
	loans.RegisterRoutesWithGroup(catalogGroup, db, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
