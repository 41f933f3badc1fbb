package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/pkg/auth"
)

// Borrow godoc
// @Summary  Borrow a book
// @Tags     transactions
// @Security BearerAuth
// @Produce  json
// @Param    userId query    int true "user id"
// @Param    bookId query    int true "book id"
// @Success  201    {object} model.Transaction
// @Failure  400    {object} echo.HTTPError
// @Failure  403    {object} echo.HTTPError
// @Failure  404    {object} echo.HTTPError
// @Failure  409    {object} echo.HTTPError
// @Router   /transactions/borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	ctx := c.Request().Context()
	userID, bookID, err := loanParams(c)
	if err != nil {
		return err
	}
	if !auth.CanActFor(ctx, userID) {
		return forbidden()
	}

	tx, err := h.transactionSvc.Borrow(ctx, userID, bookID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, tx)
}

// Return godoc
// @Summary  Return a borrowed book
// @Tags     transactions
// @Security BearerAuth
// @Produce  json
// @Param    userId query    int true "user id"
// @Param    bookId query    int true "book id"
// @Success  200    {object} model.Transaction
// @Failure  400    {object} echo.HTTPError
// @Failure  403    {object} echo.HTTPError
// @Failure  404    {object} echo.HTTPError
// @Router   /transactions/return [post]
func (h *Handler) Return(c echo.Context) error {
	ctx := c.Request().Context()
	userID, bookID, err := loanParams(c)
	if err != nil {
		return err
	}
	if !auth.CanActFor(ctx, userID) {
		return forbidden()
	}

	tx, err := h.transactionSvc.Return(ctx, userID, bookID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, tx)
}

func (h *Handler) AllTransactions(c echo.Context) error {
	txs, err := h.transactionSvc.AllTransactions(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, txs)
}

// UserTransactions lists the loan history of one user. Members see only their own.
func (h *Handler) UserTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if !auth.CanActFor(ctx, userID) {
		return forbidden()
	}

	txs, err := h.transactionSvc.UserTransactions(ctx, userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, txs)
}

func (h *Handler) BookTransactions(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	txs, err := h.transactionSvc.BookTransactions(c.Request().Context(), bookID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, txs)
}

func (h *Handler) OverdueTransactions(c echo.Context) error {
	txs, err := h.transactionSvc.OverdueTransactions(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, txs)
}

func (h *Handler) ActiveTransactions(c echo.Context) error {
	txs, err := h.transactionSvc.ActiveTransactions(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, txs)
}

func loanParams(c echo.Context) (userID, bookID int64, err error) {
	if userID, err = queryID(c, "userId"); err != nil {
		return 0, 0, err
	}
	if bookID, err = queryID(c, "bookId"); err != nil {
		return 0, 0, err
	}
	return userID, bookID, nil
}
