// Package migrations holds the schema migrations for the lending database.
// Each migration file registers itself in init, so importing the package is
// enough to make every migration visible to the migrator.
package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations is the registry the migration files add themselves to.
var Migrations = migrate.NewMigrations()

// BringUpToDate initializes the migration bookkeeping tables if they are
// missing and applies any unapplied migrations. The api server and the test
// suites call this on startup so a fresh database is immediately usable.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}
