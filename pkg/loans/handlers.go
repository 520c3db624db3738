package loans

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
)

// borrowedPageSize matches the catalog's listing page size.
const borrowedPageSize = 5

type handler struct {
	loanService *Service
}

// renewForm pre-fills the renewal form: the suggested date is three weeks
// out, the latest acceptable one four.
func (h *handler) renewForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	instance, err := h.loanService.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	today := time.Now()
	resp := RenewFormResponse{
		InstanceID:      instance.ID,
		Proposed:        DefaultRenewalDate(today).Format(time.DateOnly),
		MaxRenewalDate:  DateOnly(today).AddDate(0, 0, MaxRenewalWeeks*7).Format(time.DateOnly),
		RenewalHelpText: "Enter a date between now and 4 weeks (default 3).",
	}
	if instance.Book != nil {
		resp.BookTitle = instance.Book.Title
	}
	if instance.DueBack != nil {
		resp.CurrentDueBack = instance.DueBack.Format(time.DateOnly)
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := RenewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	proposed, err := time.Parse(time.DateOnly, params.RenewalDate)
	if err != nil {
		return errcodes.ValidationError("\"renewal_date\" should be in the format of YYYY-MM-DD")
	}

	_, err = h.loanService.Renew(ctx, id, proposed, time.Now())
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/catalog/mybooks/"))
}

func (h *handler) markReturned(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	instance, err := h.loanService.MarkReturned(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, fmt.Sprintf("/catalog/books/%d/", instance.BookID)))
}

type borrowedInstance struct {
	*models.BookInstance
	IsOverdue bool `json:"is_overdue"`
}

func (h *handler) myBooks(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListBorrowedQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := borrowedPageSize
	offset := (params.Page - 1) * borrowedPageSize
	status := models.LoanStatusOnLoan

	instances, total, err := h.loanService.ListInstancesWithTotal(ctx, ListInstancesOptions{
		Limit:      &limit,
		Offset:     &offset,
		BorrowerID: &user.ID,
		Status:     &status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	today := time.Now()
	items := make([]borrowedInstance, 0, len(instances))
	for _, instance := range instances {
		items = append(items, borrowedInstance{instance, instance.IsOverdue(today)})
	}

	resp := struct {
		Instances []borrowedInstance `json:"instances"`
		Total     int                `json:"total"`
		Page      int                `json:"page"`
	}{items, total, params.Page}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createInstance(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instance := &models.BookInstance{
		BookID:  params.BookID,
		Imprint: params.Imprint,
	}
	if params.Status != nil {
		instance.Status = models.LoanStatus(*params.Status)
	}

	if err := h.loanService.CreateInstance(ctx, instance); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, instance))
}
