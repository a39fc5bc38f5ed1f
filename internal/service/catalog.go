package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/armanvanr/perpustakaan/internal/model"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

// GetBook materializes the book with its authors and genres; the two
// association reads run in parallel.
func (s *Service) GetBook(ctx context.Context, id string) (model.BookDetail, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookDetail{}, err
	}

	detail := model.BookDetail{Book: book}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		authors, err := s.repo.ListAuthorsForBook(gctx, id)
		if err != nil {
			return err
		}
		detail.Authors = authors
		return nil
	})
	g.Go(func() error {
		genres, err := s.repo.ListGenresForBook(gctx, id)
		if err != nil {
			return err
		}
		detail.Genres = genres
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.BookDetail{}, err
	}

	if detail.Authors == nil {
		detail.Authors = []model.Author{}
	}
	if detail.Genres == nil {
		detail.Genres = []model.Genre{}
	}
	return detail, nil
}

func (s *Service) CreateBook(ctx context.Context, p model.Principal, req model.CreateBookRequest) (model.BookDetail, error) {
	if err := requireAdmin(p); err != nil {
		return model.BookDetail{}, err
	}
	book, err := s.repo.CreateBook(ctx, model.Book{
		Title:         req.Title,
		Pages:         req.Pages,
		Publisher:     req.Publisher,
		PublishedYear: req.PublishedYear,
	}, req.Authors, req.Genres)
	if err != nil {
		return model.BookDetail{}, err
	}
	return s.GetBook(ctx, book.ID)
}

func (s *Service) UpdateBook(ctx context.Context, p model.Principal, id string, patch model.BookPatch) (model.Book, error) {
	if err := requireAdmin(p); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, patch)
}

func (s *Service) DeleteBook(ctx context.Context, p model.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) SearchBooks(ctx context.Context, filter model.SearchBooksFilter) ([]model.Book, error) {
	return s.repo.SearchBooks(ctx, filter)
}

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) GetAuthor(ctx context.Context, id string) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, p model.Principal, req model.CreateAuthorRequest) (model.Author, error) {
	if err := requireAdmin(p); err != nil {
		return model.Author{}, err
	}
	return s.repo.CreateAuthor(ctx, model.Author{
		Name:      req.Name,
		BirthYear: req.BirthYear,
	})
}

func (s *Service) UpdateAuthor(ctx context.Context, p model.Principal, id string, patch model.AuthorPatch) (model.Author, error) {
	if err := requireAdmin(p); err != nil {
		return model.Author{}, err
	}
	return s.repo.UpdateAuthor(ctx, id, patch)
}

func (s *Service) DeleteAuthor(ctx context.Context, p model.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *Service) GetGenre(ctx context.Context, id string) (model.Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *Service) CreateGenre(ctx context.Context, p model.Principal, req model.CreateGenreRequest) (model.Genre, error) {
	if err := requireAdmin(p); err != nil {
		return model.Genre{}, err
	}
	return s.repo.CreateGenre(ctx, model.Genre{Name: req.Name})
}

func (s *Service) UpdateGenre(ctx context.Context, p model.Principal, id string, patch model.GenrePatch) (model.Genre, error) {
	if err := requireAdmin(p); err != nil {
		return model.Genre{}, err
	}
	return s.repo.UpdateGenre(ctx, id, patch)
}

func (s *Service) DeleteGenre(ctx context.Context, p model.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return s.repo.DeleteGenre(ctx, id)
}
