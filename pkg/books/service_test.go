package books

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

func createGenre(ctx context.Context, t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	now := time.Now()
	genre := &models.Genre{Name: name, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(genre).Exec(ctx)
	require.NoError(t, err)
	return genre
}

func TestCreateBookWithGenres(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fantasy := createGenre(ctx, t, db, "Fantasy")
	scifi := createGenre(ctx, t, db, "Science Fiction")

	book := &models.Book{
		Title:   "The Name of the Wind",
		Summary: "The tale of Kvothe.",
		ISBN:    "9780756404741",
	}
	err := svc.CreateBook(ctx, book, []int{fantasy.ID, scifi.ID})
	require.NoError(t, err)
	require.NotZero(t, book.ID)

	stored, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "The Name of the Wind", stored.Title)
	require.Len(t, stored.Genres, 2)
	assert.Equal(t, "Fantasy, Science Fiction", stored.DisplayGenre())
}

func TestCreateBookDuplicateISBNConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := &models.Book{Title: "First", Summary: "s", ISBN: "9780000000001"}
	require.NoError(t, svc.CreateBook(ctx, first, nil))

	second := &models.Book{Title: "Second", Summary: "s", ISBN: "9780000000001"}
	err := svc.CreateBook(ctx, second, nil)

	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.HTTPCode)
}

func TestListBooksOrdersByTitleAndPaginates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	titles := []string{"Zebra", "Apple", "Mango", "Cherry", "Lemon", "Banana", "Kiwi"}
	for i, title := range titles {
		book := &models.Book{Title: title, Summary: "s", ISBN: "isbn-" + string(rune('a'+i))}
		require.NoError(t, svc.CreateBook(ctx, book, nil))
	}

	limit, offset := 5, 0
	page, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, page, 5)
	assert.Equal(t, "Apple", page[0].Title)
	assert.Equal(t, "Banana", page[1].Title)

	offset = 5
	page, _, err = svc.ListBooksWithTotal(ctx, ListBooksOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Mango", page[0].Title)
	assert.Equal(t, "Zebra", page[1].Title)
}

func TestDeleteBookWithCopiesConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Foundation", Summary: "s", ISBN: "9780000000002"}
	require.NoError(t, svc.CreateBook(ctx, book, nil))

	now := time.Now()
	instance := &models.BookInstance{
		ID:        "11111111-1111-1111-1111-111111111111",
		BookID:    book.ID,
		Imprint:   "Gnome Press, 1951",
		Status:    models.LoanStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.NewInsert().Model(instance).Exec(ctx)
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, book.ID)
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.HTTPCode)

	// The book is untouched.
	_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
}

func TestDeleteBookRemovesGenreLinks(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := createGenre(ctx, t, db, "Horror")
	book := &models.Book{Title: "It", Summary: "s", ISBN: "9780000000003"}
	require.NoError(t, svc.CreateBook(ctx, book, []int{genre.ID}))

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.HTTPCode)

	links, err := db.NewSelect().
		Model((*models.BookGenre)(nil)).
		Where("book_id = ?", book.ID).
		Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, links)
}

func TestDeleteBookNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.DeleteBook(ctx, 9999)
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.HTTPCode)
}

func TestUpdateBookReplacesGenres(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fantasy := createGenre(ctx, t, db, "Fantasy")
	poetry := createGenre(ctx, t, db, "French Poetry")

	book := &models.Book{Title: "Old Title", Summary: "s", ISBN: "9780000000004"}
	require.NoError(t, svc.CreateBook(ctx, book, []int{fantasy.ID}))

	book.Title = "New Title"
	err := svc.UpdateBook(ctx, book, []int{poetry.ID}, UpdateBookOptions{
		Columns:      []string{"title"},
		UpdateGenres: true,
	})
	require.NoError(t, err)

	stored, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "New Title", stored.Title)
	require.Len(t, stored.Genres, 1)
	assert.Equal(t, "French Poetry", stored.Genres[0].Genre.Name)
}
