package roles

import (
	"context"
	"database/sql"

	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// List returns every role with its permissions, system roles first.
func (s *Service) List(ctx context.Context) ([]*models.Role, error) {
	roles := []*models.Role{}

	err := s.db.NewSelect().
		Model(&roles).
		Relation("Permissions").
		Order("r.is_system DESC").
		Order("r.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return roles, nil
}

func (s *Service) Retrieve(ctx context.Context, id int) (*models.Role, error) {
	role := &models.Role{}

	err := s.db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Role")
		}
		return nil, errors.WithStack(err)
	}
	return role, nil
}
