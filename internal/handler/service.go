package handler

import (
	"context"

	"github.com/armanvanr/perpustakaan/internal/model"
	"github.com/armanvanr/perpustakaan/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (model.Principal, error)
}

type UserService interface {
	Register(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	ListUsers(ctx context.Context, p model.Principal) ([]model.User, error)
	GetUser(ctx context.Context, p model.Principal, id string) (model.UserDetail, error)
	UpdateUser(ctx context.Context, p model.Principal, id string, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, p model.Principal, id string) error
	CreateAdmin(ctx context.Context, p model.Principal, req model.CreateUserRequest) (model.User, error)
}

type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (model.BookDetail, error)
	CreateBook(ctx context.Context, p model.Principal, req model.CreateBookRequest) (model.BookDetail, error)
	UpdateBook(ctx context.Context, p model.Principal, id string, patch model.BookPatch) (model.Book, error)
	DeleteBook(ctx context.Context, p model.Principal, id string) error
	SearchBooks(ctx context.Context, filter model.SearchBooksFilter) ([]model.Book, error)

	ListAuthors(ctx context.Context) ([]model.Author, error)
	GetAuthor(ctx context.Context, id string) (model.Author, error)
	CreateAuthor(ctx context.Context, p model.Principal, req model.CreateAuthorRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, p model.Principal, id string, patch model.AuthorPatch) (model.Author, error)
	DeleteAuthor(ctx context.Context, p model.Principal, id string) error

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id string) (model.Genre, error)
	CreateGenre(ctx context.Context, p model.Principal, req model.CreateGenreRequest) (model.Genre, error)
	UpdateGenre(ctx context.Context, p model.Principal, id string, patch model.GenrePatch) (model.Genre, error)
	DeleteGenre(ctx context.Context, p model.Principal, id string) error
}

type BorrowService interface {
	ListBorrows(ctx context.Context, p model.Principal) ([]model.Borrow, error)
	GetBorrow(ctx context.Context, p model.Principal, id string) (model.BorrowDetail, error)
	RequestBorrow(ctx context.Context, p model.Principal, bookID string) (model.Borrow, error)
	ApproveBorrow(ctx context.Context, p model.Principal, id string) (model.Borrow, error)
	ReturnBorrow(ctx context.Context, p model.Principal, id string) (model.Borrow, error)
	DeleteBorrow(ctx context.Context, p model.Principal, id string) error
}

var (
	_ AuthService    = (*service.Service)(nil)
	_ UserService    = (*service.Service)(nil)
	_ CatalogService = (*service.Service)(nil)
	_ BorrowService  = (*service.Service)(nil)
)
