package catalog

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/authors"
	"github.com/openlibrarian/openlibrarian/pkg/books"
	"github.com/openlibrarian/openlibrarian/pkg/genres"
	"github.com/openlibrarian/openlibrarian/pkg/loans"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/openlibrarian/openlibrarian/pkg/sessions"
	"github.com/pkg/errors"
)

// VisitorCookieName holds the anonymous visitor session id.
const VisitorCookieName = "openlibrarian_visitor"

const visitorCookieMaxAge = 60 * 60 * 24 * 365

type handler struct {
	authorService  *authors.Service
	bookService    *books.Service
	genreService   *genres.Service
	loanService    *loans.Service
	sessionService *sessions.Service
}

type indexResponse struct {
	NumBooks              int `json:"num_books"`
	NumInstances          int `json:"num_instances"`
	NumInstancesAvailable int `json:"num_instances_available"`
	NumAuthors            int `json:"num_authors"`
	NumGenres             int `json:"num_genres"`
	NumVisits             int `json:"num_visits"`
}

// index returns the catalog home page counts and bumps the per-visitor
// counter stored against the session cookie.
func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	resp := indexResponse{}
	var err error

	if resp.NumBooks, err = h.bookService.CountBooks(ctx); err != nil {
		return errors.WithStack(err)
	}
	if resp.NumInstances, err = h.loanService.CountInstances(ctx); err != nil {
		return errors.WithStack(err)
	}
	if resp.NumInstancesAvailable, err = h.loanService.CountAvailableInstances(ctx); err != nil {
		return errors.WithStack(err)
	}
	if resp.NumAuthors, err = h.authorService.CountAuthors(ctx); err != nil {
		return errors.WithStack(err)
	}

	allGenres, err := h.genreService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	resp.NumGenres = len(allGenres)

	session, err := h.touchSession(c)
	if err != nil {
		return errors.WithStack(err)
	}
	resp.NumVisits = session.NumVisits

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) touchSession(c echo.Context) (*models.Session, error) {
	ctx := c.Request().Context()

	id := ""
	if cookie, err := c.Cookie(VisitorCookieName); err == nil {
		id = cookie.Value
	}

	session, err := h.sessionService.Touch(ctx, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     VisitorCookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(visitorCookieMaxAge * time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return session, nil
}
