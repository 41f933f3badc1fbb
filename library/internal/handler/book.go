package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// ListBooks godoc
// @Summary List books
// @Tags    books
// @Produce json
// @Param   title    query string false "title contains, case-insensitive"
// @Param   author   query string false "author contains, case-insensitive"
// @Param   category query string false "exact category"
// @Success 200 {array} model.Book
// @Router  /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.bookSvc.ListBooks(c.Request().Context(), model.BookFilter{
		Title:    c.QueryParam("title"),
		Author:   c.QueryParam("author"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) ListAvailableBooks(c echo.Context) error {
	books, err := h.bookSvc.ListBooks(c.Request().Context(), model.BookFilter{AvailableOnly: true})
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) GetBookByISBN(c echo.Context) error {
	book, err := h.bookSvc.GetBookByISBN(c.Request().Context(), c.Param("isbn"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary  Add a title to the catalog
// @Tags     books
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    book body     model.BookRequest true "book"
// @Success  201  {object} model.Book
// @Failure  400  {object} errs.ValidationErrorResponse
// @Failure  409  {object} echo.HTTPError
// @Router   /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.BookRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	book, err := h.bookSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err = h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
