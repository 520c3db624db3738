package authors

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
)

const pageSize = 5

type handler struct {
	authorService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := pageSize
	offset := (params.Page - 1) * pageSize

	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Authors []*models.Author `json:"authors"`
		Total   int              `json:"total"`
		Page    int              `json:"page"`
	}{authors, total, params.Page}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id, IncludeBooks: true})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author := &models.Author{
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}
	var err error
	if author.DateOfBirth, err = parseDate(params.DateOfBirth); err != nil {
		return errors.WithStack(err)
	}
	if author.DateOfDeath, err = parseDate(params.DateOfDeath); err != nil {
		return errors.WithStack(err)
	}

	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, fmt.Sprintf("/catalog/authors/%d/", author.ID)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAuthorOptions{}
	if params.FirstName != nil {
		author.FirstName = *params.FirstName
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil {
		author.LastName = *params.LastName
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.DateOfBirth != nil {
		if author.DateOfBirth, err = parseDate(params.DateOfBirth); err != nil {
			return errors.WithStack(err)
		}
		opts.Columns = append(opts.Columns, "date_of_birth")
	}
	if params.DateOfDeath != nil {
		if author.DateOfDeath, err = parseDate(params.DateOfDeath); err != nil {
			return errors.WithStack(err)
		}
		opts.Columns = append(opts.Columns, "date_of_death")
	}

	if err := h.authorService.UpdateAuthor(ctx, author, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, fmt.Sprintf("/catalog/authors/%d/", author.ID)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	if err := h.authorService.DeleteAuthor(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/authors/"))
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, errcodes.ValidationError("Dates should be in the format of YYYY-MM-DD")
	}
	return &t, nil
}
