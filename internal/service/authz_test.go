package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armanvanr/perpustakaan/internal/errs"
)

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	require.NoError(t, requireAdmin(admin))
	require.ErrorIs(t, requireAdmin(member), errs.ErrForbidden)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	t.Parallel()

	require.NoError(t, requireSelfOrAdmin(admin, "user099"))
	require.NoError(t, requireSelfOrAdmin(member, member.UserID))
	require.ErrorIs(t, requireSelfOrAdmin(member, "user099"), errs.ErrForbidden)
}
