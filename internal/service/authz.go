package service

import (
	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

func requireAdmin(p model.Principal) error {
	if !p.IsAdmin() {
		return errs.ErrForbidden
	}
	return nil
}

// requireSelfOrAdmin admits admins and the owner of the target
// resource. Members touching anyone else's record are rejected.
func requireSelfOrAdmin(p model.Principal, ownerID string) error {
	if p.IsAdmin() || p.UserID == ownerID {
		return nil
	}
	return errs.ErrForbidden
}
