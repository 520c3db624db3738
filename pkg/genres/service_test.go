package genres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/migrations"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestCreateGenreTrimsAndConflictsCaseInsensitively(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := &models.Genre{Name: "  Fantasy  "}
	require.NoError(t, svc.CreateGenre(ctx, genre))
	assert.Equal(t, "Fantasy", genre.Name)

	err := svc.CreateGenre(ctx, &models.Genre{Name: "fantasy"})
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.HTTPCode)
}

func TestListGenresIncludesBookCounts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fantasy := &models.Genre{Name: "Fantasy"}
	scifi := &models.Genre{Name: "Science Fiction"}
	require.NoError(t, svc.CreateGenre(ctx, fantasy))
	require.NoError(t, svc.CreateGenre(ctx, scifi))

	now := time.Now()
	book := &models.Book{Title: "t", Summary: "s", ISBN: "i", CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&models.BookGenre{BookID: book.ID, GenreID: fantasy.ID}).Exec(ctx)
	require.NoError(t, err)

	genres, err := svc.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 2)

	// Ordered by name.
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, 1, genres[0].BookCount)
	assert.Equal(t, "Science Fiction", genres[1].Name)
	assert.Equal(t, 0, genres[1].BookCount)
}

func TestRetrieveGenreByNameIgnoresCase(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateGenre(ctx, &models.Genre{Name: "Horror"}))

	name := "hOrRoR"
	genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Horror", genre.Name)
}
