package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Touch records a visit. An empty or unknown id starts a new session at one
// visit; a known id has its counter bumped atomically.
func (svc *Service) Touch(ctx context.Context, id string) (*models.Session, error) {
	now := time.Now()

	if id != "" {
		session := &models.Session{}
		err := svc.db.
			NewUpdate().
			Model(session).
			Set("num_visits = num_visits + 1").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Returning("*").
			Scan(ctx)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithStack(err)
		}
		// Stale cookie. Fall through and start over.
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		NumVisits: 1,
	}
	_, err := svc.db.
		NewInsert().
		Model(session).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return session, nil
}

func (svc *Service) RetrieveSession(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	err := svc.db.
		NewSelect().
		Model(session).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return session, nil
}
