package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

type Repository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	SetUserRole(ctx context.Context, id string, role model.Role) (model.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateBook(ctx context.Context, book model.Book, authors, genres []string) (model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, patch model.BookPatch) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	SearchBooks(ctx context.Context, filter model.SearchBooksFilter) ([]model.Book, error)
	ListAuthorsForBook(ctx context.Context, bookID string) ([]model.Author, error)
	ListGenresForBook(ctx context.Context, bookID string) ([]model.Genre, error)

	CreateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	GetAuthor(ctx context.Context, id string) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	UpdateAuthor(ctx context.Context, id string, patch model.AuthorPatch) (model.Author, error)
	DeleteAuthor(ctx context.Context, id string) error

	CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error)
	GetGenre(ctx context.Context, id string) (model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	UpdateGenre(ctx context.Context, id string, patch model.GenrePatch) (model.Genre, error)
	DeleteGenre(ctx context.Context, id string) error

	CreateBorrow(ctx context.Context, borrow model.Borrow) (model.Borrow, error)
	GetBorrow(ctx context.Context, id string) (model.Borrow, error)
	ListBorrows(ctx context.Context) ([]model.Borrow, error)
	ApproveBorrow(ctx context.Context, id, adminName string) (model.Borrow, error)
	ReturnBorrow(ctx context.Context, id, adminName string) (model.Borrow, error)
	DeleteBorrow(ctx context.Context, id string) error
	ListReadingList(ctx context.Context, userID string) ([]string, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	userTableName       = `"user"`
	bookTableName       = `book`
	authorTableName     = `author`
	genreTableName      = `genre`
	bookAuthorTableName = `book_author`
	bookGenreTableName  = `book_genre`
	borrowTableName     = `borrow`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// wrapConflict maps postgres unique violations to errs.ErrConflict.
func wrapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errs.ErrConflict
	}
	return err
}
