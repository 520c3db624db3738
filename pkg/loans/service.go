package loans

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveInstanceOptions struct {
	ID *string
}

type ListInstancesOptions struct {
	Limit      *int
	Offset     *int
	BookID     *int
	BorrowerID *int
	Status     *models.LoanStatus

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateInstance registers a new physical copy. The ID is a fresh random
// UUID and the status defaults to maintenance, since new copies are
// processed before they hit the shelves.
func (svc *Service) CreateInstance(ctx context.Context, instance *models.BookInstance) error {
	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt

	if instance.ID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		instance.ID = id.String()
	}

	if instance.Status == "" {
		instance.Status = models.LoanStatusMaintenance
	}
	if !instance.Status.Valid() {
		return errcodes.ValidationError("Unknown loan status")
	}

	_, err := svc.db.
		NewInsert().
		Model(instance).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveInstance(ctx context.Context, opts RetrieveInstanceOptions) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Relation("Borrower")

	if opts.ID != nil {
		q = q.Where("bi.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

func (svc *Service) ListInstances(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, error) {
	instances, _, err := svc.listInstancesWithTotal(ctx, opts)
	return instances, errors.WithStack(err)
}

func (svc *Service) ListInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	opts.includeTotal = true
	return svc.listInstancesWithTotal(ctx, opts)
}

func (svc *Service) listInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	instances := []*models.BookInstance{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		OrderExpr("bi.due_back IS NULL, bi.due_back ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.BookID != nil {
		q = q.Where("bi.book_id = ?", *opts.BookID)
	}
	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return instances, total, nil
}

// Renew validates the proposed date and, only if it passes, persists it as
// the instance's new due date. A failed validation leaves the stored row
// untouched. Status and borrower never change here.
func (svc *Service) Renew(ctx context.Context, id string, proposed, today time.Time) (*models.BookInstance, error) {
	instance, err := svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &id})
	if err != nil {
		return nil, err
	}

	renewalDate, err := ValidateRenewalDate(proposed, today)
	if err != nil {
		return nil, err
	}

	instance.DueBack = &renewalDate
	instance.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(instance).
		Column("due_back", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

// MarkReturned puts the copy back on the shelf: status becomes available and
// the borrower is cleared, whatever state the copy was in before. Running it
// twice is harmless.
func (svc *Service) MarkReturned(ctx context.Context, id string) (*models.BookInstance, error) {
	instance, err := svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &id})
	if err != nil {
		return nil, err
	}

	instance.Status = models.LoanStatusAvailable
	instance.BorrowerID = nil
	instance.Borrower = nil
	instance.UpdatedAt = time.Now()

	_, err = svc.db.
		NewUpdate().
		Model(instance).
		Column("status", "borrower_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

// CountInstances returns the total number of copies in the library.
func (svc *Service) CountInstances(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.BookInstance)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// CountAvailableInstances returns the number of copies ready to borrow.
func (svc *Service) CountAvailableInstances(ctx context.Context) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.BookInstance)(nil)).
		Where("bi.status = ?", models.LoanStatusAvailable).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}
