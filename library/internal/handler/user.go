package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.userSvc.ListUsers(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if !auth.CanActFor(ctx, id) {
		return forbidden()
	}
	user, err := h.userSvc.GetUser(ctx, id)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUserByUsername(c echo.Context) error {
	user, err := h.userSvc.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser lets a librarian add accounts of any role.
func (h *Handler) CreateUser(c echo.Context) error {
	var req model.UserCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userSvc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if !auth.CanActFor(ctx, id) {
		return forbidden()
	}
	var req model.UserUpdateRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userSvc.UpdateUser(ctx, id, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err = h.userSvc.DeleteUser(c.Request().Context(), id); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
