package users

import (
	"context"
	"time"

	"github.com/openlibrarian/openlibrarian/pkg/auth"
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

type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
	RoleID   int
}

func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ? COLLATE NOCASE", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.Conflict("Username already exists")
	}

	roleExists, err := s.db.NewSelect().
		Model((*models.Role)(nil)).
		Where("id = ?", opts.RoleID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !roleExists {
		return nil, errcodes.ValidationError("Invalid role ID")
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		RoleID:       opts.RoleID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.Retrieve(ctx, user.ID)
}

func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Role").
		Relation("Role.Permissions").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("User")
	}
	return user, nil
}

type ListOptions struct {
	Limit  int
	Offset int
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Relation("Role").
		Order("u.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

type UpdateOptions struct {
	Columns []string
}

func (s *Service) Update(ctx context.Context, user *models.User, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	user.UpdatedAt = time.Now()
	opts.Columns = append(opts.Columns, "updated_at")

	_, err := s.db.NewUpdate().
		Model(user).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// ResetPassword changes a user's password.
func (s *Service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hashedPassword).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", userID).
		Exec(ctx)
	return errors.WithStack(err)
}

// Deactivate disables an account without deleting it. Loan history keeps
// pointing at the user.
func (s *Service) Deactivate(ctx context.Context, userID int) error {
	_, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", userID).
		Exec(ctx)
	return errors.WithStack(err)
}
