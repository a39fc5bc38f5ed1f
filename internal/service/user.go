package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

// Register is open: anyone may create a member account.
func (s *Service) Register(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	password, err := s.cmp.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: password,
		Role:     model.RoleMember,
	})
}

func (s *Service) ListUsers(ctx context.Context, p model.Principal) ([]model.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, p model.Principal, id string) (model.UserDetail, error) {
	if err := requireAdmin(p); err != nil {
		return model.UserDetail{}, err
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.UserDetail{}, err
	}
	readingList, err := s.repo.ListReadingList(ctx, id)
	if err != nil {
		return model.UserDetail{}, err
	}
	if readingList == nil {
		readingList = []string{}
	}
	return model.UserDetail{User: user, ReadingList: readingList}, nil
}

func (s *Service) UpdateUser(ctx context.Context, p model.Principal, id string, patch model.UserPatch) (model.User, error) {
	if err := requireSelfOrAdmin(p, id); err != nil {
		return model.User{}, err
	}
	if patch.Password != nil {
		password, err := s.cmp.Hash(*patch.Password)
		if err != nil {
			return model.User{}, err
		}
		patch.Password = &password
	}
	return s.repo.UpdateUser(ctx, id, patch)
}

func (s *Service) DeleteUser(ctx context.Context, p model.Principal, id string) error {
	if err := requireSelfOrAdmin(p, id); err != nil {
		return err
	}
	return s.repo.DeleteUser(ctx, id)
}

// CreateAdmin upgrades an existing account to admin by email, or
// registers a fresh admin when the email is unknown.
func (s *Service) CreateAdmin(ctx context.Context, p model.Principal, req model.CreateUserRequest) (model.User, error) {
	if err := requireAdmin(p); err != nil {
		return model.User{}, err
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return s.repo.SetUserRole(ctx, existing.ID, model.RoleAdmin)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return model.User{}, err
	}

	password, err := s.cmp.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: password,
		Role:     model.RoleAdmin,
	})
}
