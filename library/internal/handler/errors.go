package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
)

var kindStatus = map[error]int{
	errs.ErrNotFound:     http.StatusNotFound,
	errs.ErrInvalidState: http.StatusBadRequest,
	errs.ErrConflict:     http.StatusConflict,
	errs.ErrUnauthorized: http.StatusUnauthorized,
	errs.ErrForbidden:    http.StatusForbidden,
}

// httpError maps a service error onto a response. Anything without a client
// facing kind is logged and reported as a bare 500.
func (h *Handler) httpError(c echo.Context, err error) error {
	if code, ok := kindStatus[errs.Kind(err)]; ok {
		return echo.NewHTTPError(code, err.Error())
	}
	h.log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			resp := errs.ValidationErrorResponse{
				Message: "validation failed",
				Errors:  make(map[string]string, len(verrs)),
			}
			for _, fe := range verrs {
				resp.Errors[fe.Field()] = fe.Tag()
			}
			return echo.NewHTTPError(http.StatusBadRequest, resp)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

func queryID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

func forbidden() error {
	return echo.NewHTTPError(http.StatusForbidden, errs.ErrNotAllowed.Error())
}
