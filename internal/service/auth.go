package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

// CredentialComparator abstracts how a supplied secret is checked
// against (and stored into) the user record, so plain-text storage can
// be swapped for a hash without touching the authenticator contract.
type CredentialComparator interface {
	Compare(stored, supplied string) error
	Hash(secret string) (string, error)
}

type PlainComparator struct{}

func (PlainComparator) Compare(stored, supplied string) error {
	if stored != supplied {
		return errs.ErrBadCredential
	}
	return nil
}

func (PlainComparator) Hash(secret string) (string, error) {
	return secret, nil
}

type BcryptComparator struct{}

func (BcryptComparator) Compare(stored, supplied string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)); err != nil {
		return errs.ErrBadCredential
	}
	return nil
}

func (BcryptComparator) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate resolves basic-auth credentials to a principal.
// Side-effect-free.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.Principal, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Principal{}, errs.ErrNoSuchUser
		}
		return model.Principal{}, err
	}
	if err := s.cmp.Compare(user.Password, password); err != nil {
		return model.Principal{}, errs.ErrBadCredential
	}
	return model.Principal{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}
