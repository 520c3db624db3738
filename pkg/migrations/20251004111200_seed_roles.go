package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// Librarian role holds every loan and author capability. Members
		// hold none; they can still browse the catalog and see their own
		// borrowed books.
		_, err := db.Exec(`INSERT INTO roles (name, is_system) VALUES ('librarian', TRUE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`INSERT INTO roles (name, is_system) VALUES ('member', TRUE)`)
		if err != nil {
			return errors.WithStack(err)
		}

		var librarianRoleID int
		err = db.QueryRow(`SELECT id FROM roles WHERE name = 'librarian'`).Scan(&librarianRoleID)
		if err != nil {
			return errors.WithStack(err)
		}

		capabilities := []struct {
			resource  string
			operation string
		}{
			{"loans", "renew"},
			{"loans", "return"},
			{"authors", "create"},
			{"authors", "update"},
			{"authors", "delete"},
			{"books", "create"},
			{"books", "update"},
			{"books", "delete"},
			{"genres", "create"},
			{"users", "create"},
			{"users", "update"},
			{"users", "delete"},
		}

		for _, capability := range capabilities {
			_, err = db.Exec(`INSERT INTO permissions (role_id, resource, operation) VALUES (?, ?, ?)`,
				librarianRoleID, capability.resource, capability.operation)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DELETE FROM permissions WHERE role_id IN (SELECT id FROM roles WHERE name IN ('librarian', 'member'))`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DELETE FROM roles WHERE name IN ('librarian', 'member')`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
