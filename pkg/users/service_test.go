package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/openlibrarian/openlibrarian/pkg/auth"
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

func getRoleIDByName(ctx context.Context, t *testing.T, db *bun.DB, roleName string) int {
	t.Helper()

	role := new(models.Role)
	err := db.NewSelect().
		Model(role).
		Where("name = ?", roleName).
		Scan(ctx)
	require.NoError(t, err)

	return role.ID
}

func TestCreateUserLoadsRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "head-librarian",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleLibrarian),
	})
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.RoleLibrarian, user.Role.Name)
	assert.True(t, user.HasPermission(models.ResourceLoans, models.OperationRenew))
}

func TestCreateUserDuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	roleID := getRoleIDByName(ctx, t, db, models.RoleMember)

	_, err := svc.Create(ctx, CreateUserOptions{Username: "reader", Password: "password123", RoleID: roleID})
	require.NoError(t, err)

	// Usernames compare case-insensitively.
	_, err = svc.Create(ctx, CreateUserOptions{Username: "Reader", Password: "password123", RoleID: roleID})
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.HTTPCode)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserOptions{Username: "nobody", Password: "password123", RoleID: 999})
	cerr := &errcodes.Error{}
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 422, cerr.HTTPCode)
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "reader",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleMember),
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, user.ID, "newpassword456"))

	stored := &models.User{}
	err = db.NewSelect().Model(stored).Where("u.id = ?", user.ID).Scan(ctx)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("newpassword456", stored.PasswordHash))
	assert.False(t, auth.CheckPassword("password123", stored.PasswordHash))
}

func TestDeactivateKeepsTheRow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "leaver",
		Password: "password123",
		RoleID:   getRoleIDByName(ctx, t, db, models.RoleMember),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, user.ID))

	stored, err := svc.Retrieve(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
