package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
	md "github.com/armanvanr/perpustakaan/pkg/middleware"
	"github.com/armanvanr/perpustakaan/pkg/validate"
)

const principalKey = "principal"

type Handler struct {
	authSvc    AuthService
	userSvc    UserService
	catalogSvc CatalogService
	borrowSvc  BorrowService
	log        *zap.Logger
}

func New(authSvc AuthService, userSvc UserService, catalogSvc CatalogService, borrowSvc BorrowService, log *zap.Logger) *Handler {
	return &Handler{
		authSvc:    authSvc,
		userSvc:    userSvc,
		catalogSvc: catalogSvc,
		borrowSvc:  borrowSvc,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
	)
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/", h.Welcome)
	base.POST("/user", h.Register)

	api := e.Group("", md.NewRateLimiter(apiRPS), h.basicAuth)

	api.GET("/users", h.ListUsers)
	api.GET("/user/:id", h.GetUser)
	api.PUT("/user/:id", h.UpdateUser)
	api.DELETE("/user/:id", h.DeleteUser)
	api.POST("/admin", h.CreateAdmin)

	api.GET("/books", h.ListBooks)
	api.GET("/book/:id", h.GetBook)
	api.POST("/book", h.CreateBook)
	api.PUT("/book/:id", h.UpdateBook)
	api.DELETE("/book/:id", h.DeleteBook)
	api.GET("/booksearch", h.SearchBooks)

	api.GET("/authors", h.ListAuthors)
	api.GET("/author/:id", h.GetAuthor)
	api.POST("/author", h.CreateAuthor)
	api.PUT("/author/:id", h.UpdateAuthor)
	api.DELETE("/author/:id", h.DeleteAuthor)

	api.GET("/genres", h.ListGenres)
	api.GET("/genre/:id", h.GetGenre)
	api.POST("/genre", h.CreateGenre)
	api.PUT("/genre/:id", h.UpdateGenre)
	api.DELETE("/genre/:id", h.DeleteGenre)

	api.GET("/borrows", h.ListBorrows)
	api.GET("/borrow/:id", h.GetBorrow)
	api.POST("/borrow/:bookId", h.RequestBorrow)
	api.PUT("/borrow/approve/:id", h.ApproveBorrow)
	api.PUT("/borrow/return/:id", h.ReturnBorrow)
	api.DELETE("/borrow/:id", h.DeleteBorrow)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to API Perpustakaan"})
}

// basicAuth resolves the Basic-Auth header to a principal and stashes
// it on the request; handlers hand it to the service explicitly.
func (h *Handler) basicAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email, password, ok := c.Request().BasicAuth()
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
		}
		p, err := h.authSvc.Authenticate(c.Request().Context(), email, password)
		if err != nil {
			return httpError(err)
		}
		c.Set(principalKey, p)
		return next(c)
	}
}

func principalFrom(c echo.Context) (model.Principal, error) {
	p, ok := c.Get(principalKey).(model.Principal)
	if !ok {
		return model.Principal{}, errors.New("no principal in request context")
	}
	return p, nil
}

// httpError maps the service error taxonomy onto status codes. A bad
// password is 400, not 401, matching the original API contract.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrBadCredential),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNoSuchUser),
		errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
