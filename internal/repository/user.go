package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

var userColumns = []string{"id", "name", "email", "password", "type", "is_show"}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	id, err := r.nextID(ctx, r.db, kindUser)
	if err != nil {
		return model.User{}, err
	}

	query, args, err := qb.Insert(userTableName).
		Columns("id", "name", "email", "password", "type").
		Values(id, user.Name, user.Email, user.Password, user.Role).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, wrapConflict(err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		r.log.Error("CreateUser", zap.String("q", query), zap.Error(err))
		return model.User{}, wrapConflict(err)
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id string) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return r.getUser(ctx, query, args)
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"email": email}).
		Where(sq.Eq{"is_show": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return r.getUser(ctx, query, args)
}

func (r *repository) getUser(ctx context.Context, query string, args []any) (model.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(userTableName).
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

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
}

func (r *repository) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	set := make(map[string]any)
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if len(set) == 0 {
		return r.GetUser(ctx, id)
	}

	query, args, err := qb.Update(userTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, wrapConflict(err)
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, wrapConflict(err)
	}
	return user, nil
}

func (r *repository) SetUserRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	query, args, err := qb.Update(userTableName).
		Set("type", role).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) DeleteUser(ctx context.Context, id string) error {
	query, args, err := qb.Update(userTableName).
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
