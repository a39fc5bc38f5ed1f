package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h *Handler) ListBorrows(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	borrows, err := h.borrowSvc.ListBorrows(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrows)
}

func (h *Handler) GetBorrow(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	borrow, err := h.borrowSvc.GetBorrow(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrow)
}

func (h *Handler) RequestBorrow(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookID := c.Param("bookId")
	if bookID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("empty bookId"))
	}
	borrow, err := h.borrowSvc.RequestBorrow(c.Request().Context(), p, bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, borrow)
}

func (h *Handler) ApproveBorrow(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	borrow, err := h.borrowSvc.ApproveBorrow(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrow)
}

func (h *Handler) ReturnBorrow(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	borrow, err := h.borrowSvc.ReturnBorrow(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrow)
}

func (h *Handler) DeleteBorrow(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.borrowSvc.DeleteBorrow(c.Request().Context(), p, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "borrow record deleted"})
}
