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

var borrowColumns = []string{
	"id", "book_id", "user_id", "book_title", "member_name", "status",
	"approve_admin", "return_admin", "requested_date", "approved_date", "returned_date", "is_show",
}

func (r *repository) CreateBorrow(ctx context.Context, borrow model.Borrow) (model.Borrow, error) {
	id, err := r.nextID(ctx, r.db, kindBorrow)
	if err != nil {
		return model.Borrow{}, err
	}

	query, args, err := qb.Insert(borrowTableName).
		Columns("id", "book_id", "user_id", "book_title", "member_name", "status", "requested_date").
		Values(id, borrow.BookID, borrow.UserID, borrow.BookTitle, borrow.MemberName, borrow.Status, borrow.RequestedDate).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Borrow{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Borrow{}, err
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
	if err != nil {
		r.log.Error("CreateBorrow", zap.String("q", query), zap.Error(err))
		return model.Borrow{}, err
	}
	return created, nil
}

func (r *repository) GetBorrow(ctx context.Context, id string) (model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Borrow{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Borrow{}, err
	}
	defer rows.Close()

	borrow, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Borrow{}, errs.ErrNotFound
		}
		return model.Borrow{}, err
	}
	return borrow, nil
}

func (r *repository) ListBorrows(ctx context.Context) ([]model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowTableName).
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

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Borrow])
}

// ApproveBorrow is a single conditional update: only a visible record
// still in 'requested' moves to 'approved'. A concurrent second
// approval finds zero rows and surfaces ErrInvalidTransition.
func (r *repository) ApproveBorrow(ctx context.Context, id, adminName string) (model.Borrow, error) {
	return r.transition(ctx, id, adminName, model.StatusRequested, model.StatusApproved, "approve_admin", "approved_date")
}

func (r *repository) ReturnBorrow(ctx context.Context, id, adminName string) (model.Borrow, error) {
	return r.transition(ctx, id, adminName, model.StatusApproved, model.StatusReturned, "return_admin", "returned_date")
}

func (r *repository) transition(ctx context.Context, id, adminName string, from, to model.BorrowStatus, adminCol, dateCol string) (model.Borrow, error) {
	q := fmt.Sprintf(`update %s
	set status = $1, %s = $2, %s = now()
	where id = $3 and status = $4 and is_show = true
	returning *`, borrowTableName, adminCol, dateCol)

	rows, err := r.db.Query(ctx, q, to, adminName, id, from)
	if err != nil {
		return model.Borrow{}, err
	}
	defer rows.Close()

	borrow, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Borrow])
	if err == nil {
		return borrow, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Borrow{}, err
	}

	// Zero rows: either the record is gone or it is not in the
	// required state.
	if _, getErr := r.GetBorrow(ctx, id); getErr != nil {
		return model.Borrow{}, getErr
	}
	return model.Borrow{}, errs.ErrInvalidTransition
}

func (r *repository) DeleteBorrow(ctx context.Context, id string) error {
	return r.softDelete(ctx, borrowTableName, id)
}

// ListReadingList projects the user's approved borrows onto current
// book titles. Derived on every call, never stored.
func (r *repository) ListReadingList(ctx context.Context, userID string) ([]string, error) {
	query, args, err := qb.Select("b.title").
		From(borrowTableName + " br").
		Join(fmt.Sprintf("%s b on b.id = br.book_id", bookTableName)).
		Where(sq.Eq{"br.user_id": userID}).
		Where(sq.Eq{"br.status": model.StatusApproved}).
		OrderBy("br.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowTo[string])
}
