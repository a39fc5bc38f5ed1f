package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
)

func TestUpdateUser_Ownership(t *testing.T) {
	t.Parallel()

	name := "Andrea Hirata"
	patch := model.UserPatch{Name: &name}

	repo := &fakeRepo{
		updateUser: func(_ context.Context, id string, p model.UserPatch) (model.User, error) {
			return model.User{ID: id, Name: *p.Name}, nil
		},
	}
	svc := newTestService(repo, nil)

	t.Run("self allowed", func(t *testing.T) {
		user, err := svc.UpdateUser(context.Background(), member, member.UserID, patch)
		require.NoError(t, err)
		require.Equal(t, "Andrea Hirata", user.Name)
	})

	t.Run("admin allowed on others", func(t *testing.T) {
		_, err := svc.UpdateUser(context.Background(), admin, member.UserID, patch)
		require.NoError(t, err)
	})

	t.Run("member forbidden on others", func(t *testing.T) {
		_, err := svc.UpdateUser(context.Background(), member, "user099", patch)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestDeleteUser_Ownership(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	err := svc.DeleteUser(context.Background(), member, "user099")
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestCreateAdmin_UpgradesExistingEmail(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		getUserByEmail: func(_ context.Context, email string) (model.User, error) {
			return model.User{ID: "user007", Email: email, Role: model.RoleMember}, nil
		},
		setUserRole: func(_ context.Context, id string, role model.Role) (model.User, error) {
			require.Equal(t, "user007", id)
			require.Equal(t, model.RoleAdmin, role)
			return model.User{ID: id, Role: role}, nil
		},
	}
	svc := newTestService(repo, nil)

	user, err := svc.CreateAdmin(context.Background(), admin, model.CreateUserRequest{
		Name: "Andrea", Email: "andrea@mail.com", Password: "rahasia",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, user.Role)
}

func TestCreateAdmin_CreatesFreshAdmin(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		getUserByEmail: func(_ context.Context, _ string) (model.User, error) {
			return model.User{}, errs.ErrNotFound
		},
		createUser: func(_ context.Context, user model.User) (model.User, error) {
			require.Equal(t, model.RoleAdmin, user.Role)
			user.ID = "user042"
			return user, nil
		},
	}
	svc := newTestService(repo, nil)

	user, err := svc.CreateAdmin(context.Background(), admin, model.CreateUserRequest{
		Name: "Dee", Email: "dee@mail.com", Password: "rahasia",
	})
	require.NoError(t, err)
	require.Equal(t, "user042", user.ID)
}

func TestCreateAdmin_MemberForbidden(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeRepo{}, nil)

	_, err := svc.CreateAdmin(context.Background(), member, model.CreateUserRequest{
		Name: "Dee", Email: "dee@mail.com", Password: "rahasia",
	})
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestGetUser_IncludesReadingList(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		getUser: func(_ context.Context, id string) (model.User, error) {
			return model.User{ID: id, Name: "Andrea"}, nil
		},
		listReading: func(_ context.Context, userID string) ([]string, error) {
			require.Equal(t, "user007", userID)
			return []string{"Supernova", "Laskar Pelangi"}, nil
		},
	}
	svc := newTestService(repo, nil)

	detail, err := svc.GetUser(context.Background(), admin, "user007")
	require.NoError(t, err)
	require.Equal(t, []string{"Supernova", "Laskar Pelangi"}, detail.ReadingList)
}

func TestGetUser_MemberForbidden(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeRepo{}, nil)

	_, err := svc.GetUser(context.Background(), member, member.UserID)
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestRegister_CreatesMember(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		createUser: func(_ context.Context, user model.User) (model.User, error) {
			require.Equal(t, model.RoleMember, user.Role)
			require.Equal(t, "rahasia", user.Password)
			user.ID = "user007"
			return user, nil
		},
	}
	svc := newTestService(repo, nil)

	user, err := svc.Register(context.Background(), model.CreateUserRequest{
		Name: "Andrea", Email: "andrea@mail.com", Password: "rahasia",
	})
	require.NoError(t, err)
	require.Equal(t, "user007", user.ID)
}
