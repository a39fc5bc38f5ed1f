package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

var (
	bookColumns   = []string{"id", "title", "pages", "publisher", "published_year", "is_show"}
	authorColumns = []string{"id", "name", "birth_year", "is_show"}
	genreColumns  = []string{"id", "name", "is_show"}
)

func (r *repository) CreateBook(ctx context.Context, book model.Book, authors, genres []string) (model.Book, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Book{}, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	id, err := r.nextID(ctx, tx, kindBook)
	if err != nil {
		return model.Book{}, err
	}

	query, args, err := qb.Insert(bookTableName).
		Columns("id", "title", "pages", "publisher", "published_year").
		Values(id, book.Title, book.Pages, book.Publisher, book.PublishedYear).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, wrapConflict(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, wrapConflict(err)
	}

	for _, name := range authors {
		authorID, err := r.upsertAuthor(ctx, tx, name)
		if err != nil {
			return model.Book{}, err
		}
		if err := r.link(ctx, tx, bookAuthorTableName, "author_id", created.ID, authorID); err != nil {
			return model.Book{}, err
		}
	}
	for _, name := range genres {
		genreID, err := r.upsertGenre(ctx, tx, name)
		if err != nil {
			return model.Book{}, err
		}
		if err := r.link(ctx, tx, bookGenreTableName, "genre_id", created.ID, genreID); err != nil {
			return model.Book{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Book{}, err
	}
	return created, nil
}

// upsertAuthor resolves a name to an existing author row or creates
// one. Match is case-sensitive exact.
func (r *repository) upsertAuthor(ctx context.Context, tx pgx.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRow(ctx, fmt.Sprintf(`select id from %s where name = $1`, authorTableName), name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	id, err = r.nextID(ctx, tx, kindAuthor)
	if err != nil {
		return "", err
	}
	q := fmt.Sprintf(`insert into %s (id, name) values ($1, $2)
	on conflict (name) do update set name = excluded.name
	returning id`, authorTableName)
	if err := tx.QueryRow(ctx, q, id, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *repository) upsertGenre(ctx context.Context, tx pgx.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRow(ctx, fmt.Sprintf(`select id from %s where name = $1`, genreTableName), name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	id, err = r.nextID(ctx, tx, kindGenre)
	if err != nil {
		return "", err
	}
	q := fmt.Sprintf(`insert into %s (id, name) values ($1, $2)
	on conflict (name) do update set name = excluded.name
	returning id`, genreTableName)
	if err := tx.QueryRow(ctx, q, id, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// link inserts an association row; re-linking the same pair is a no-op.
func (r *repository) link(ctx context.Context, tx pgx.Tx, table, column, bookID, otherID string) error {
	q := fmt.Sprintf(`insert into %s (book_id, %s) values ($1, $2) on conflict do nothing`, table, column)
	_, err := tx.Exec(ctx, q, bookID, otherID)
	return err
}

func (r *repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName).
		Where(sq.Eq{"is_show": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
}

func (r *repository) UpdateBook(ctx context.Context, id string, patch model.BookPatch) (model.Book, error) {
	set := make(map[string]any)
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Pages != nil {
		set["pages"] = *patch.Pages
	}
	if patch.Publisher != nil {
		set["publisher"] = *patch.Publisher
	}
	if patch.PublishedYear != nil {
		set["published_year"] = *patch.PublishedYear
	}
	if len(set) == 0 {
		return r.GetBook(ctx, id)
	}

	query, args, err := qb.Update(bookTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, wrapConflict(err)
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, wrapConflict(err)
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, id string) error {
	return r.softDelete(ctx, bookTableName, id)
}

func (r *repository) softDelete(ctx context.Context, table, id string) error {
	query, args, err := qb.Update(table).
		Set("is_show", false).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) SearchBooks(ctx context.Context, filter model.SearchBooksFilter) ([]model.Book, error) {
	q := qb.Select("b.id", "b.title", "b.pages", "b.publisher", "b.published_year", "b.is_show").
		Distinct().
		From(bookTableName + " b").
		Where(sq.Eq{"b.is_show": true}).
		OrderBy("b.id")

	if filter.Title != "" {
		q = q.Where(sq.ILike{"b.title": "%" + filter.Title + "%"})
	}
	if filter.Publisher != "" {
		q = q.Where(sq.ILike{"b.publisher": "%" + filter.Publisher + "%"})
	}
	if filter.PublishedYear != 0 {
		q = q.Where(sq.Eq{"b.published_year": filter.PublishedYear})
	}
	if filter.Author != "" {
		q = q.Join(fmt.Sprintf("%s ba on ba.book_id = b.id", bookAuthorTableName)).
			Join(fmt.Sprintf("%s a on a.id = ba.author_id", authorTableName)).
			Where(sq.ILike{"a.name": "%" + filter.Author + "%"})
	}
	if filter.Genre != "" {
		q = q.Join(fmt.Sprintf("%s bg on bg.book_id = b.id", bookGenreTableName)).
			Join(fmt.Sprintf("%s g on g.id = bg.genre_id", genreTableName)).
			Where(sq.Eq{"g.name": filter.Genre})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("SearchBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
}

func (r *repository) ListAuthorsForBook(ctx context.Context, bookID string) ([]model.Author, error) {
	query, args, err := qb.Select("a.id", "a.name", "a.birth_year", "a.is_show").
		From(authorTableName + " a").
		Join(fmt.Sprintf("%s ba on ba.author_id = a.id", bookAuthorTableName)).
		Where(sq.Eq{"ba.book_id": bookID}).
		OrderBy("a.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
}

func (r *repository) ListGenresForBook(ctx context.Context, bookID string) ([]model.Genre, error) {
	query, args, err := qb.Select("g.id", "g.name", "g.is_show").
		From(genreTableName + " g").
		Join(fmt.Sprintf("%s bg on bg.genre_id = g.id", bookGenreTableName)).
		Where(sq.Eq{"bg.book_id": bookID}).
		OrderBy("g.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
}

func (r *repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	id, err := r.nextID(ctx, r.db, kindAuthor)
	if err != nil {
		return model.Author{}, err
	}

	query, args, err := qb.Insert(authorTableName).
		Columns("id", "name", "birth_year").
		Values(id, author.Name, author.BirthYear).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, wrapConflict(err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return model.Author{}, wrapConflict(err)
	}
	return created, nil
}

func (r *repository) GetAuthor(ctx context.Context, id string) (model.Author, error) {
	query, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, err
	}
	defer rows.Close()

	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	query, args, err := qb.Select(authorColumns...).
		From(authorTableName).
		Where(sq.Eq{"is_show": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
}

func (r *repository) UpdateAuthor(ctx context.Context, id string, patch model.AuthorPatch) (model.Author, error) {
	set := make(map[string]any)
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.BirthYear != nil {
		set["birth_year"] = *patch.BirthYear
	}
	if len(set) == 0 {
		return r.GetAuthor(ctx, id)
	}

	query, args, err := qb.Update(authorTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, wrapConflict(err)
	}
	defer rows.Close()

	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, wrapConflict(err)
	}
	return author, nil
}

func (r *repository) DeleteAuthor(ctx context.Context, id string) error {
	return r.softDelete(ctx, authorTableName, id)
}

func (r *repository) CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	id, err := r.nextID(ctx, r.db, kindGenre)
	if err != nil {
		return model.Genre{}, err
	}

	query, args, err := qb.Insert(genreTableName).
		Columns("id", "name").
		Values(id, genre.Name).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Genre{}, wrapConflict(err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Genre])
	if err != nil {
		return model.Genre{}, wrapConflict(err)
	}
	return created, nil
}

func (r *repository) GetGenre(ctx context.Context, id string) (model.Genre, error) {
	query, args, err := qb.Select(genreColumns...).
		From(genreTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Genre{}, err
	}
	defer rows.Close()

	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Genre])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Genre{}, errs.ErrNotFound
		}
		return model.Genre{}, err
	}
	return genre, nil
}

func (r *repository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	query, args, err := qb.Select(genreColumns...).
		From(genreTableName).
		Where(sq.Eq{"is_show": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
}

func (r *repository) UpdateGenre(ctx context.Context, id string, patch model.GenrePatch) (model.Genre, error) {
	if patch.Name == nil {
		return r.GetGenre(ctx, id)
	}

	query, args, err := qb.Update(genreTableName).
		Set("name", *patch.Name).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Genre{}, wrapConflict(err)
	}
	defer rows.Close()

	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Genre])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Genre{}, errs.ErrNotFound
		}
		return model.Genre{}, wrapConflict(err)
	}
	return genre, nil
}

func (r *repository) DeleteGenre(ctx context.Context, id string) error {
	return r.softDelete(ctx, genreTableName, id)
}
