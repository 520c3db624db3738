package authors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/binder"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// newCatalogServer wires the author routes onto a real echo instance so
// tests exercise path resolution, not just the handlers.
func newCatalogServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	authService := auth.NewService(db, "test-jwt-secret")
	RegisterRoutesWithGroup(e.Group("/catalog"), db, auth.NewMiddleware(authService))

	return e
}

func createSessionToken(t *testing.T, db *bun.DB, username, roleName string) string {
	t.Helper()
	ctx := context.Background()

	role := &models.Role{}
	require.NoError(t, db.NewSelect().Model(role).Where("name = ?", roleName).Scan(ctx))

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	token, err := auth.NewService(db, "test-jwt-secret").GenerateToken(user)
	require.NoError(t, err)
	return token
}

func postForm(e *echo.Echo, path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestCreateAuthorFormPath(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newCatalogServer(t, db)
	token := createSessionToken(t, db, "head-librarian", models.RoleLibrarian)

	form := url.Values{}
	form.Set("first_name", "Ursula")
	form.Set("last_name", "Le Guin")
	form.Set("date_of_birth", "1929-10-21")

	rr := postForm(e, "/catalog/authors/create/", token, form)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	author := &models.Author{}
	err := db.NewSelect().Model(author).Where("last_name = ?", "Le Guin").Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ursula", author.FirstName)
	require.NotNil(t, author.DateOfBirth)
	assert.True(t, author.DateOfBirth.Equal(time.Date(1929, 10, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, fmt.Sprintf("/catalog/authors/%d/", author.ID), rr.Header().Get(echo.HeaderLocation))
}

func TestUpdateAuthorFormPath(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newCatalogServer(t, db)
	token := createSessionToken(t, db, "head-librarian", models.RoleLibrarian)
	ctx := context.Background()

	author := &models.Author{FirstName: "Patrick", LastName: "Rothfus"}
	require.NoError(t, NewService(db).CreateAuthor(ctx, author))

	form := url.Values{}
	form.Set("last_name", "Rothfuss")

	path := fmt.Sprintf("/catalog/authors/%d/update/", author.ID)
	rr := postForm(e, path, token, form)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	stored := &models.Author{}
	require.NoError(t, db.NewSelect().Model(stored).Where("id = ?", author.ID).Scan(ctx))
	assert.Equal(t, "Rothfuss", stored.LastName)
	assert.Equal(t, "Patrick", stored.FirstName)
}

func TestDeleteAuthorFormPath(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newCatalogServer(t, db)
	token := createSessionToken(t, db, "head-librarian", models.RoleLibrarian)
	ctx := context.Background()

	author := &models.Author{FirstName: "Ben", LastName: "Bova"}
	require.NoError(t, NewService(db).CreateAuthor(ctx, author))

	path := fmt.Sprintf("/catalog/authors/%d/delete/", author.ID)
	rr := postForm(e, path, token, url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
	assert.Equal(t, "/catalog/authors/", rr.Header().Get(echo.HeaderLocation))

	count, err := db.NewSelect().Model((*models.Author)(nil)).Where("id = ?", author.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateAuthorFormPathForbiddenForMembers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newCatalogServer(t, db)
	token := createSessionToken(t, db, "reader", models.RoleMember)

	form := url.Values{}
	form.Set("first_name", "Ursula")
	form.Set("last_name", "Le Guin")

	rr := postForm(e, "/catalog/authors/create/", token, form)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
