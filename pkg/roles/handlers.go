package roles

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openlibrarian/openlibrarian/pkg/errcodes"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	roleService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	roles, err := h.roleService.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Roles []*models.Role `json:"roles"`
	}{roles}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Role")
	}

	role, err := h.roleService.Retrieve(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, role))
}
