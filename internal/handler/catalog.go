package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/armanvanr/perpustakaan/internal/model"
)

func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.catalogSvc.ListBooks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.catalogSvc.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.CreateBook(c.Request().Context(), p, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var patch model.BookPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), p, c.Param("id"), patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), p, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}

func (h *Handler) SearchBooks(c echo.Context) error {
	filter := model.SearchBooksFilter{
		Title:     c.QueryParam("title"),
		Author:    c.QueryParam("author"),
		Publisher: c.QueryParam("publisher"),
		Genre:     c.QueryParam("genre"),
	}
	if yearParam := c.QueryParam("published_year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("published_year is invalid"))
		}
		filter.PublishedYear = year
	}

	books, err := h.catalogSvc.SearchBooks(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) ListAuthors(c echo.Context) error {
	authors, err := h.catalogSvc.ListAuthors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	author, err := h.catalogSvc.GetAuthor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) CreateAuthor(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author, err := h.catalogSvc.CreateAuthor(c.Request().Context(), p, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var patch model.AuthorPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	author, err := h.catalogSvc.UpdateAuthor(c.Request().Context(), p, c.Param("id"), patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.catalogSvc.DeleteAuthor(c.Request().Context(), p, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "author deleted"})
}

func (h *Handler) ListGenres(c echo.Context) error {
	genres, err := h.catalogSvc.ListGenres(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *Handler) GetGenre(c echo.Context) error {
	genre, err := h.catalogSvc.GetGenre(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) CreateGenre(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateGenreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	genre, err := h.catalogSvc.CreateGenre(c.Request().Context(), p, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, genre)
}

func (h *Handler) UpdateGenre(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var patch model.GenrePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	genre, err := h.catalogSvc.UpdateGenre(c.Request().Context(), p, c.Param("id"), patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) DeleteGenre(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.catalogSvc.DeleteGenre(c.Request().Context(), p, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "genre deleted"})
}
