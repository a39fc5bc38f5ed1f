package service

import (
	"context"
	"time"

	"github.com/armanvanr/perpustakaan/internal/model"
)

func (s *Service) ListBorrows(ctx context.Context, p model.Principal) ([]model.Borrow, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.repo.ListBorrows(ctx)
}

func (s *Service) GetBorrow(ctx context.Context, p model.Principal, id string) (model.BorrowDetail, error) {
	if err := requireAdmin(p); err != nil {
		return model.BorrowDetail{}, err
	}
	borrow, err := s.repo.GetBorrow(ctx, id)
	if err != nil {
		return model.BorrowDetail{}, err
	}
	return borrow.Detail(), nil
}

// RequestBorrow opens the lifecycle: the caller asks for a book and a
// 'requested' record is created with title and member name snapshotted.
func (s *Service) RequestBorrow(ctx context.Context, p model.Principal, bookID string) (model.Borrow, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.Borrow{}, err
	}

	now := time.Now().UTC()
	borrow, err := s.repo.CreateBorrow(ctx, model.Borrow{
		BookID:        book.ID,
		UserID:        p.UserID,
		BookTitle:     book.Title,
		MemberName:    p.Name,
		Status:        model.StatusRequested,
		RequestedDate: &now,
	})
	if err != nil {
		return model.Borrow{}, err
	}
	s.publishBorrowEvent(borrow.ID, "requested", p.Name)
	return borrow, nil
}

func (s *Service) ApproveBorrow(ctx context.Context, p model.Principal, id string) (model.Borrow, error) {
	if err := requireAdmin(p); err != nil {
		return model.Borrow{}, err
	}
	borrow, err := s.repo.ApproveBorrow(ctx, id, p.Name)
	if err != nil {
		return model.Borrow{}, err
	}
	s.publishBorrowEvent(borrow.ID, "approved", p.Name)
	return borrow, nil
}

func (s *Service) ReturnBorrow(ctx context.Context, p model.Principal, id string) (model.Borrow, error) {
	if err := requireAdmin(p); err != nil {
		return model.Borrow{}, err
	}
	borrow, err := s.repo.ReturnBorrow(ctx, id, p.Name)
	if err != nil {
		return model.Borrow{}, err
	}
	s.publishBorrowEvent(borrow.ID, "returned", p.Name)
	return borrow, nil
}

// DeleteBorrow hides the record from listings; it stays in the table
// for audit and there is no restore.
func (s *Service) DeleteBorrow(ctx context.Context, p model.Principal, id string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if err := s.repo.DeleteBorrow(ctx, id); err != nil {
		return err
	}
	s.publishBorrowEvent(id, "deleted", p.Name)
	return nil
}
