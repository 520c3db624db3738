package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
)

const pageSize = 5

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := pageSize
	offset := (params.Page - 1) * pageSize

	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:    &limit,
		Offset:   &offset,
		AuthorID: params.AuthorID,
		GenreID:  params.GenreID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
		Page  int            `json:"page"`
	}{books, total, params.Page}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

type bookDetailResponse struct {
	*models.Book
	NumInstances          int `json:"num_instances"`
	NumInstancesAvailable int `json:"num_instances_available"`
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := bookDetailResponse{Book: book, NumInstances: len(book.Instances)}
	for _, instance := range book.Instances {
		if instance.Status == models.LoanStatusAvailable {
			resp.NumInstancesAvailable++
		}
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:    params.Title,
		Summary:  params.Summary,
		ISBN:     params.ISBN,
		AuthorID: params.AuthorID,
		Language: params.Language,
	}

	if err := h.bookService.CreateBook(ctx, book, params.GenreIDs); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{}
	if params.Title != nil {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Summary != nil {
		book.Summary = *params.Summary
		opts.Columns = append(opts.Columns, "summary")
	}
	if params.ISBN != nil {
		book.ISBN = *params.ISBN
		opts.Columns = append(opts.Columns, "isbn")
	}
	if params.AuthorID != nil {
		book.AuthorID = params.AuthorID
		opts.Columns = append(opts.Columns, "author_id")
	}
	if params.Language != nil {
		book.Language = params.Language
		opts.Columns = append(opts.Columns, "language")
	}

	var genreIDs []int
	if params.GenreIDs != nil {
		genreIDs = *params.GenreIDs
		opts.UpdateGenres = true
	}

	if err := h.bookService.UpdateBook(ctx, book, genreIDs, opts); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, updated))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/books/"))
}
