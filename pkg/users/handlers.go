package users

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
)

const pageSize = 25

type handler struct {
	userService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListUsersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	users, total, err := h.userService.List(ctx, ListOptions{
		Limit:  pageSize,
		Offset: (params.Page - 1) * pageSize,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Users []*models.User `json:"users"`
		Total int            `json:"total"`
		Page  int            `json:"page"`
	}{users, total, params.Page}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	user, err := h.userService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Create(ctx, CreateUserOptions{
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
		RoleID:   params.RoleID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, user))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	params := UpdateUserPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateOptions{}
	if params.Email != nil {
		user.Email = params.Email
		opts.Columns = append(opts.Columns, "email")
	}
	if params.RoleID != nil {
		user.RoleID = *params.RoleID
		opts.Columns = append(opts.Columns, "role_id")
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
		opts.Columns = append(opts.Columns, "is_active")
	}

	if err := h.userService.Update(ctx, user, opts); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.userService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, updated))
}

func (h *handler) resetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	params := ResetPasswordPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.userService.Retrieve(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	if err := h.userService.ResetPassword(ctx, id, params.Password); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) deactivate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	if _, err := h.userService.Retrieve(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	if err := h.userService.Deactivate(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
