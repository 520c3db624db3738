package genres

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

type RetrieveGenreOptions struct {
	ID   *int
	Name *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateGenre(ctx context.Context, genre *models.Genre) error {
	now := time.Now()
	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = now
	}
	genre.UpdatedAt = genre.CreatedAt
	genre.Name = strings.TrimSpace(genre.Name)

	_, err := svc.db.
		NewInsert().
		Model(genre).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return errcodes.Conflict("A genre with this name already exists")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveGenre(ctx context.Context, opts RetrieveGenreOptions) (*models.Genre, error) {
	genre := &models.Genre{}

	q := svc.db.
		NewSelect().
		Model(genre)

	if opts.ID != nil {
		q = q.Where("g.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("g.name = ? COLLATE NOCASE", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

// ListGenres returns every genre with the number of books tagged with it,
// ordered by name.
func (svc *Service) ListGenres(ctx context.Context) ([]*models.Genre, error) {
	genres := []*models.Genre{}

	err := svc.db.
		NewSelect().
		Model(&genres).
		ColumnExpr("g.*").
		ColumnExpr("(SELECT COUNT(*) FROM book_genres AS bg WHERE bg.genre_id = g.id) AS book_count").
		Order("g.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return genres, nil
}
