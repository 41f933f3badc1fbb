package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// Register godoc
// @Summary Create a member account
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   user body     model.UserCreateRequest true "account"
// @Success 201  {object} model.AuthResponse
// @Failure 400  {object} errs.ValidationErrorResponse
// @Failure 409  {object} echo.HTTPError
// @Router  /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resp, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   credentials body     model.AuthRequest true "credentials"
// @Success 200         {object} model.AuthResponse
// @Failure 401         {object} echo.HTTPError
// @Router  /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.AuthRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resp, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.authSvc.Logout(c.Request().Context()); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
