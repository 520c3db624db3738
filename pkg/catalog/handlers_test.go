package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/authors"
	"github.com/openlibrarian/openlibrarian/pkg/books"
	"github.com/openlibrarian/openlibrarian/pkg/genres"
	"github.com/openlibrarian/openlibrarian/pkg/loans"
	"github.com/openlibrarian/openlibrarian/pkg/migrations"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/openlibrarian/openlibrarian/pkg/sessions"
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

func newHandler(db *bun.DB) *handler {
	return &handler{
		authorService:  authors.NewService(db),
		bookService:    books.NewService(db),
		genreService:   genres.NewService(db),
		loanService:    loans.NewService(db),
		sessionService: sessions.NewService(db),
	}
}

func seedCatalog(ctx context.Context, t *testing.T, db *bun.DB) {
	t.Helper()

	now := time.Now()

	author := &models.Author{FirstName: "Patrick", LastName: "Rothfuss", CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)

	genre := &models.Genre{Name: "Fantasy", CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(genre).Exec(ctx)
	require.NoError(t, err)

	book := &models.Book{Title: "The Name of the Wind", Summary: "s", ISBN: "i", AuthorID: &author.ID, CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	instances := []*models.BookInstance{
		{ID: "11111111-1111-1111-1111-111111111111", BookID: book.ID, Imprint: "x", Status: models.LoanStatusAvailable, CreatedAt: now, UpdatedAt: now},
		{ID: "22222222-2222-2222-2222-222222222222", BookID: book.ID, Imprint: "x", Status: models.LoanStatusOnLoan, CreatedAt: now, UpdatedAt: now},
	}
	_, err = db.NewInsert().Model(&instances).Exec(ctx)
	require.NoError(t, err)
}

func TestIndexReturnsCountsAndCountsVisits(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newHandler(db)
	ctx := context.Background()

	seedCatalog(ctx, t, db)

	e := echo.New()

	// First visit: no cookie yet.
	req := httptest.NewRequest(http.MethodGet, "/catalog/", nil)
	rr := httptest.NewRecorder()
	require.NoError(t, h.index(e.NewContext(req, rr)))
	require.Equal(t, http.StatusOK, rr.Code)

	resp := indexResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.NumBooks)
	assert.Equal(t, 2, resp.NumInstances)
	assert.Equal(t, 1, resp.NumInstancesAvailable)
	assert.Equal(t, 1, resp.NumAuthors)
	assert.Equal(t, 1, resp.NumGenres)
	assert.Equal(t, 1, resp.NumVisits)

	var visitor *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == VisitorCookieName {
			visitor = cookie
		}
	}
	require.NotNil(t, visitor)

	// Second visit with the cookie bumps the counter.
	req = httptest.NewRequest(http.MethodGet, "/catalog/", nil)
	req.AddCookie(visitor)
	rr = httptest.NewRecorder()
	require.NoError(t, h.index(e.NewContext(req, rr)))

	resp = indexResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.NumVisits)
}

func TestIndexNewBrowserStartsAtOne(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newHandler(db)

	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/catalog/", nil)
	rr := httptest.NewRecorder()
	require.NoError(t, h.index(e.NewContext(req, rr)))

	// A different browser with its own (absent) cookie starts at one, not
	// at the global visit count.
	req = httptest.NewRequest(http.MethodGet, "/catalog/", nil)
	rr = httptest.NewRecorder()
	require.NoError(t, h.index(e.NewContext(req, rr)))

	resp := indexResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.NumVisits)
}
