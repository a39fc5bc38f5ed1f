package errs

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNoSuchUser        = errors.New("no user with such email")
	ErrBadCredential     = errors.New("wrong password")
	ErrForbidden         = errors.New("insufficient rights")
	ErrConflict          = errors.New("duplicate value")
	ErrInvalidTransition = errors.New("invalid borrow status transition")
)
