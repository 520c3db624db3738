package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	ISBN *string
}

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	AuthorID *int
	GenreID  *int

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string

	// UpdateGenres replaces the book's genre associations with Book.Genres.
	UpdateGenres bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	err := svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				return errcodes.Conflict("A book with this ISBN already exists")
			}
			return errors.WithStack(err)
		}

		for _, genreID := range genreIDs {
			bookGenre := &models.BookGenre{BookID: book.ID, GenreID: genreID}
			_, err = tx.
				NewInsert().
				Model(bookGenre).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Genres.Genre").
		Relation("Instances", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("bi.due_back IS NULL, bi.due_back ASC")
		})

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.ISBN != nil {
		q = q.Where("b.isbn = ?", *opts.ISBN)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Order("b.title ASC")

	if opts.AuthorID != nil {
		q = q.Where("b.author_id = ?", *opts.AuthorID)
	}
	if opts.GenreID != nil {
		q = q.
			Join("JOIN book_genres AS bg ON bg.book_id = b.id").
			Where("bg.genre_id = ?", *opts.GenreID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err := q.ScanAndCount(ctx)
		if err != nil {
			return nil, 0, errors.WithStack(err)
		}
		return books, total, nil
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return books, 0, nil
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.ListBooks(ctx, opts)
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, genreIDs []int, opts UpdateBookOptions) error {
	book.UpdatedAt = time.Now()

	err := svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(opts.Columns) > 0 {
			opts.Columns = append(opts.Columns, "updated_at")

			_, err := tx.
				NewUpdate().
				Model(book).
				Column(opts.Columns...).
				WherePK().
				Exec(ctx)
			if err != nil {
				if strings.Contains(err.Error(), "UNIQUE constraint") {
					return errcodes.Conflict("A book with this ISBN already exists")
				}
				return errors.WithStack(err)
			}
		}

		if opts.UpdateGenres {
			_, err := tx.
				NewDelete().
				Model((*models.BookGenre)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			for _, genreID := range genreIDs {
				bookGenre := &models.BookGenre{BookID: book.ID, GenreID: genreID}
				_, err = tx.
					NewInsert().
					Model(bookGenre).
					Exec(ctx)
				if err != nil {
					return errors.WithStack(err)
				}
			}
		}
		return nil
	})
	return errors.WithStack(err)
}

// DeleteBook refuses to delete a book that still has copies. The copies have
// to be removed first.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	err := svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.
			NewSelect().
			Model((*models.BookInstance)(nil)).
			Where("bi.book_id = ?", id).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count > 0 {
			return errcodes.Conflict("Cannot delete a book that still has copies")
		}

		_, err = tx.
			NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.
			NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if rows == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
	return errors.WithStack(err)
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}
