package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/migrations"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
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

func createUserWithRole(t *testing.T, db *bun.DB, svc *Service, username, roleName string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()

	role := &models.Role{}
	err := db.NewSelect().Model(role).Where("name = ?", roleName).Scan(ctx)
	require.NoError(t, err)

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	return user, token
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticateRedirectsAnonymousToLogin(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/mybooks/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	err := m.Authenticate(okHandler)(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/auth/login?next=%2Fcatalog%2Fmybooks%2F", rr.Header().Get(echo.HeaderLocation))
}

func TestAuthenticateRedirectsOnGarbageToken(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/mybooks/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	err := m.Authenticate(okHandler)(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestAuthenticateRedirectsDeactivatedUser(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)

	user, token := createUserWithRole(t, db, svc, "ghost", models.RoleMember)

	_, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", user.ID).
		Exec(context.Background())
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/mybooks/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	err = m.Authenticate(okHandler)(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestAuthenticateSetsUserOnContext(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)

	user, token := createUserWithRole(t, db, svc, "reader", models.RoleMember)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/mybooks/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	err := m.Authenticate(func(c echo.Context) error {
		got := UserFromContext(c)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "reader", got.Username)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequirePermissionForbidsMember(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)

	_, token := createUserWithRole(t, db, svc, "member", models.RoleMember)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/catalog/books/some-id/renew/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	chained := m.Authenticate(m.RequirePermission(models.ResourceLoans, models.OperationRenew)(okHandler))
	err := chained(c)

	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, http.StatusForbidden, cerr.HTTPCode)
}

func TestRequirePermissionAllowsLibrarian(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db, "test-jwt-secret")
	m := NewMiddleware(svc)

	_, token := createUserWithRole(t, db, svc, "librarian2", models.RoleLibrarian)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/catalog/books/some-id/renew/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	chained := m.Authenticate(m.RequirePermission(models.ResourceLoans, models.OperationRenew)(okHandler))
	err := chained(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rr.Code)
}
