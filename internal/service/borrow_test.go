package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/model"
	"github.com/armanvanr/perpustakaan/internal/repository"
)

// fakeRepo implements the slices of repository.Repository a test
// needs; unimplemented methods panic via the embedded nil interface.
type fakeRepo struct {
	repository.Repository

	getBook        func(ctx context.Context, id string) (model.Book, error)
	getUser        func(ctx context.Context, id string) (model.User, error)
	getUserByEmail func(ctx context.Context, email string) (model.User, error)
	createUser     func(ctx context.Context, user model.User) (model.User, error)
	setUserRole    func(ctx context.Context, id string, role model.Role) (model.User, error)
	updateUser     func(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	createBorrow   func(ctx context.Context, borrow model.Borrow) (model.Borrow, error)
	approveBorrow  func(ctx context.Context, id, adminName string) (model.Borrow, error)
	returnBorrow   func(ctx context.Context, id, adminName string) (model.Borrow, error)
	deleteBorrow   func(ctx context.Context, id string) error
	listReading    func(ctx context.Context, userID string) ([]string, error)
}

func (f *fakeRepo) GetBook(ctx context.Context, id string) (model.Book, error) {
	return f.getBook(ctx, id)
}

func (f *fakeRepo) GetUser(ctx context.Context, id string) (model.User, error) {
	return f.getUser(ctx, id)
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return f.getUserByEmail(ctx, email)
}

func (f *fakeRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return f.createUser(ctx, user)
}

func (f *fakeRepo) SetUserRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	return f.setUserRole(ctx, id, role)
}

func (f *fakeRepo) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	return f.updateUser(ctx, id, patch)
}

func (f *fakeRepo) CreateBorrow(ctx context.Context, borrow model.Borrow) (model.Borrow, error) {
	return f.createBorrow(ctx, borrow)
}

func (f *fakeRepo) ApproveBorrow(ctx context.Context, id, adminName string) (model.Borrow, error) {
	return f.approveBorrow(ctx, id, adminName)
}

func (f *fakeRepo) ReturnBorrow(ctx context.Context, id, adminName string) (model.Borrow, error) {
	return f.returnBorrow(ctx, id, adminName)
}

func (f *fakeRepo) DeleteBorrow(ctx context.Context, id string) error {
	return f.deleteBorrow(ctx, id)
}

func (f *fakeRepo) ListReadingList(ctx context.Context, userID string) ([]string, error) {
	return f.listReading(ctx, userID)
}

type recordedEvent struct {
	topic string
	value any
}

type fakeEnqueuer struct {
	events []recordedEvent
}

func (f *fakeEnqueuer) Enqueue(topic string, v any) error {
	f.events = append(f.events, recordedEvent{topic: topic, value: v})
	return nil
}

func newTestService(repo repository.Repository, audit Enqueuer) *Service {
	return NewService(repo, PlainComparator{}, audit, zap.NewExample().Named("test"))
}

var (
	admin  = model.Principal{UserID: "user001", Name: "Librarian", Role: model.RoleAdmin}
	member = model.Principal{UserID: "user007", Name: "Andrea", Role: model.RoleMember}
)

func TestRequestBorrow(t *testing.T) {
	t.Parallel()

	var created model.Borrow
	repo := &fakeRepo{
		getBook: func(_ context.Context, id string) (model.Book, error) {
			require.Equal(t, "bk012", id)
			return model.Book{ID: "bk012", Title: "Supernova"}, nil
		},
		createBorrow: func(_ context.Context, borrow model.Borrow) (model.Borrow, error) {
			borrow.ID = "brw001"
			created = borrow
			return borrow, nil
		},
	}
	audit := &fakeEnqueuer{}
	svc := newTestService(repo, audit)

	before := time.Now().UTC()
	borrow, err := svc.RequestBorrow(context.Background(), member, "bk012")
	require.NoError(t, err)

	require.Equal(t, "brw001", borrow.ID)
	require.Equal(t, model.StatusRequested, created.Status)
	require.Equal(t, "Supernova", created.BookTitle)
	require.Equal(t, "Andrea", created.MemberName)
	require.Equal(t, "user007", created.UserID)
	require.NotNil(t, created.RequestedDate)
	require.False(t, created.RequestedDate.Before(before))

	require.Len(t, audit.events, 1)
	ev, ok := audit.events[0].value.(model.BorrowEvent)
	require.True(t, ok)
	require.Equal(t, "requested", ev.Action)
	require.Equal(t, "brw001", ev.BorrowID)
	require.NotEmpty(t, ev.EventID)
}

func TestRequestBorrow_UnknownBook(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		getBook: func(_ context.Context, _ string) (model.Book, error) {
			return model.Book{}, errs.ErrNotFound
		},
	}
	svc := newTestService(repo, nil)

	_, err := svc.RequestBorrow(context.Background(), member, "bk999")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestApproveBorrow(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		approveBorrow: func(_ context.Context, id, adminName string) (model.Borrow, error) {
			require.Equal(t, "brw045", id)
			require.Equal(t, "Librarian", adminName)
			now := time.Now().UTC()
			return model.Borrow{
				ID:           id,
				Status:       model.StatusApproved,
				ApproveAdmin: &adminName,
				ApprovedDate: &now,
			}, nil
		},
	}
	audit := &fakeEnqueuer{}
	svc := newTestService(repo, audit)

	borrow, err := svc.ApproveBorrow(context.Background(), admin, "brw045")
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, borrow.Status)
	require.Len(t, audit.events, 1)
}

func TestApproveBorrow_MemberForbidden(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeRepo{}, nil)

	_, err := svc.ApproveBorrow(context.Background(), member, "brw045")
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestApproveBorrow_InvalidTransition(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		approveBorrow: func(_ context.Context, _, _ string) (model.Borrow, error) {
			return model.Borrow{}, errs.ErrInvalidTransition
		},
	}
	audit := &fakeEnqueuer{}
	svc := newTestService(repo, audit)

	_, err := svc.ApproveBorrow(context.Background(), admin, "brw045")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	require.Empty(t, audit.events)
}

func TestReturnBorrow_MemberForbidden(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeRepo{}, nil)

	_, err := svc.ReturnBorrow(context.Background(), member, "brw045")
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestDeleteBorrow(t *testing.T) {
	t.Parallel()

	deleted := ""
	repo := &fakeRepo{
		deleteBorrow: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	audit := &fakeEnqueuer{}
	svc := newTestService(repo, audit)

	require.NoError(t, svc.DeleteBorrow(context.Background(), admin, "brw045"))
	require.Equal(t, "brw045", deleted)
	require.Len(t, audit.events, 1)
	ev := audit.events[0].value.(model.BorrowEvent)
	require.Equal(t, "deleted", ev.Action)
}
