package authors

import (
	"context"
	"database/sql"
	"time"

	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveAuthorOptions struct {
	ID *int

	// IncludeBooks loads the author's books ordered by title.
	IncludeBooks bool
}

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type UpdateAuthorOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateAuthor(ctx context.Context, author *models.Author) error {
	now := time.Now()
	if author.CreatedAt.IsZero() {
		author.CreatedAt = now
	}
	author.UpdatedAt = author.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(author).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveAuthor(ctx context.Context, opts RetrieveAuthorOptions) (*models.Author, error) {
	author := &models.Author{}

	q := svc.db.
		NewSelect().
		Model(author)

	if opts.IncludeBooks {
		q = q.Relation("Books", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("b.title ASC")
		})
	}
	if opts.ID != nil {
		q = q.Where("a.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}

	return author, nil
}

func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	authors := []*models.Author{}

	q := svc.db.
		NewSelect().
		Model(&authors).
		Order("a.last_name ASC").
		Order("a.first_name ASC")

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
		return authors, total, nil
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return authors, 0, nil
}

func (svc *Service) ListAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	opts.includeTotal = true
	return svc.ListAuthors(ctx, opts)
}

func (svc *Service) UpdateAuthor(ctx context.Context, author *models.Author, opts UpdateAuthorOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	author.UpdatedAt = time.Now()
	opts.Columns = append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(author).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// DeleteAuthor removes the author and detaches their books. The books stay in
// the catalog without an author reference.
func (svc *Service) DeleteAuthor(ctx context.Context, id int) error {
	err := svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewUpdate().
			Model((*models.Book)(nil)).
			Set("author_id = NULL").
			Set("updated_at = ?", time.Now()).
			Where("author_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.
			NewDelete().
			Model((*models.Author)(nil)).
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
			return errcodes.NotFound("Author")
		}
		return nil
	})
	return errors.WithStack(err)
}

func (svc *Service) CountAuthors(ctx context.Context) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.Author)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}
