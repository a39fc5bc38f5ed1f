package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/errs"
	"github.com/armanvanr/perpustakaan/internal/handler"
	"github.com/armanvanr/perpustakaan/internal/model"
	service_mocks "github.com/armanvanr/perpustakaan/internal/handler/mocks"
	"github.com/armanvanr/perpustakaan/pkg/validate"
)

const (
	adminEmail    = "admin@perpustakaan.id"
	adminPassword = "admin123"
)

var adminPrincipal = model.Principal{UserID: "user001", Name: "Librarian", Role: model.RoleAdmin}

type testEnv struct {
	e      *echo.Echo
	auth   *service_mocks.MockAuthService
	user   *service_mocks.MockUserService
	cat    *service_mocks.MockCatalogService
	borrow *service_mocks.MockBorrowService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)

	auth := service_mocks.NewMockAuthService(c)
	user := service_mocks.NewMockUserService(c)
	cat := service_mocks.NewMockCatalogService(c)
	borrow := service_mocks.NewMockBorrowService(c)

	log := zap.NewExample().Named("test")
	h := handler.New(auth, user, cat, borrow, log)

	e := h.NewRouter()
	e.Validator = validate.NewCustomValidator()
	return testEnv{e: e, auth: auth, user: user, cat: cat, borrow: borrow}
}

func expectAdminAuth(env testEnv) {
	env.auth.EXPECT().
		Authenticate(gomock.Any(), adminEmail, adminPassword).
		Return(adminPrincipal, nil)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestHandler_ApproveBorrow(t *testing.T) {
	t.Parallel()

	approvedAt := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	adminName := "Librarian"
	approved := model.Borrow{
		ID:           "brw045",
		BookID:       "bk012",
		UserID:       "user007",
		BookTitle:    "Laskar Pelangi",
		MemberName:   "Andrea",
		Status:       model.StatusApproved,
		ApproveAdmin: &adminName,
		ApprovedDate: &approvedAt,
	}

	var tests = []struct {
		name         string
		borrowID     string
		mockBehavior func(env testEnv)
		expectedCode int
		expectedBody string
	}{
		{
			name:     "ok",
			borrowID: "brw045",
			mockBehavior: func(env testEnv) {
				expectAdminAuth(env)
				env.borrow.EXPECT().
					ApproveBorrow(gomock.Any(), adminPrincipal, "brw045").
					Return(approved, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:     "err. already approved",
			borrowID: "brw045",
			mockBehavior: func(env testEnv) {
				expectAdminAuth(env)
				env.borrow.EXPECT().
					ApproveBorrow(gomock.Any(), adminPrincipal, "brw045").
					Return(model.Borrow{}, errs.ErrInvalidTransition)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"invalid borrow status transition"}`,
		},
		{
			name:     "err. unknown record",
			borrowID: "brw999",
			mockBehavior: func(env testEnv) {
				expectAdminAuth(env)
				env.borrow.EXPECT().
					ApproveBorrow(gomock.Any(), adminPrincipal, "brw999").
					Return(model.Borrow{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"not found"}`,
		},
		{
			name:     "err. member forbidden",
			borrowID: "brw045",
			mockBehavior: func(env testEnv) {
				env.auth.EXPECT().
					Authenticate(gomock.Any(), adminEmail, adminPassword).
					Return(model.Principal{UserID: "user007", Name: "Andrea", Role: model.RoleMember}, nil)
				env.borrow.EXPECT().
					ApproveBorrow(gomock.Any(), model.Principal{UserID: "user007", Name: "Andrea", Role: model.RoleMember}, "brw045").
					Return(model.Borrow{}, errs.ErrForbidden)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"insufficient rights"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			tt.mockBehavior(env)

			r := httptest.NewRequest(http.MethodPut, "/borrow/approve/"+tt.borrowID, http.NoBody)
			r.SetBasicAuth(adminEmail, adminPassword)
			w := httptest.NewRecorder()
			env.e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			} else {
				require.JSONEq(t, mustJSON(t, approved), w.Body.String())
			}
		})
	}
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		body         string
		mockBehavior func(env testEnv)
		expectedCode int
		expectedBody string
	}{
		{
			name: "created",
			body: `{"name":"Andrea","email":"andrea@mail.com","password":"rahasia"}`,
			mockBehavior: func(env testEnv) {
				env.user.EXPECT().
					Register(gomock.Any(), model.CreateUserRequest{
						Name: "Andrea", Email: "andrea@mail.com", Password: "rahasia",
					}).
					Return(model.User{ID: "user007", Name: "Andrea", Email: "andrea@mail.com", Role: model.RoleMember}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":"user007","name":"Andrea","email":"andrea@mail.com","type":"member"}`,
		},
		{
			name: "err. duplicate email",
			body: `{"name":"Andrea","email":"andrea@mail.com","password":"rahasia"}`,
			mockBehavior: func(env testEnv) {
				env.user.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(model.User{}, errs.ErrConflict)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"duplicate value"}`,
		},
		{
			name:         "err. invalid email",
			body:         `{"name":"Andrea","email":"not-an-email","password":"rahasia"}`,
			mockBehavior: func(env testEnv) {},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			tt.mockBehavior(env)

			r := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			env.e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHandler_SearchBooks(t *testing.T) {
	t.Parallel()

	fiction1999 := []model.Book{
		{ID: "bk012", Title: "Supernova", Pages: 286, Publisher: "Truedee", PublishedYear: 1999},
	}

	var tests = []struct {
		name         string
		query        string
		mockBehavior func(env testEnv)
		expectedCode int
		expectedBody string
	}{
		{
			name:  "genre and year",
			query: "genre=Fiction&published_year=1999",
			mockBehavior: func(env testEnv) {
				expectAdminAuth(env)
				env.cat.EXPECT().
					SearchBooks(gomock.Any(), model.SearchBooksFilter{Genre: "Fiction", PublishedYear: 1999}).
					Return(fiction1999, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":"bk012","title":"Supernova","pages":286,"publisher":"Truedee","published_year":1999}]`,
		},
		{
			name:  "genre only",
			query: "genre=Fiction",
			mockBehavior: func(env testEnv) {
				expectAdminAuth(env)
				env.cat.EXPECT().
					SearchBooks(gomock.Any(), model.SearchBooksFilter{Genre: "Fiction"}).
					Return(fiction1999, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":"bk012","title":"Supernova","pages":286,"publisher":"Truedee","published_year":1999}]`,
		},
		{
			name:  "err. year not a number",
			query: "published_year=abc",
			mockBehavior: func(env testEnv) {
				expectAdminAuth(env)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"published_year is invalid"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			tt.mockBehavior(env)

			r := httptest.NewRequest(http.MethodGet, "/booksearch?"+tt.query, http.NoBody)
			r.SetBasicAuth(adminEmail, adminPassword)
			w := httptest.NewRecorder()
			env.e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_BasicAuth(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		setAuth      bool
		mockBehavior func(env testEnv)
		expectedCode int
		expectedBody string
	}{
		{
			name:         "err. missing header",
			setAuth:      false,
			mockBehavior: func(env testEnv) {},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"missing credentials"}`,
		},
		{
			name:    "err. unknown email",
			setAuth: true,
			mockBehavior: func(env testEnv) {
				env.auth.EXPECT().
					Authenticate(gomock.Any(), adminEmail, adminPassword).
					Return(model.Principal{}, errs.ErrNoSuchUser)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"no user with such email"}`,
		},
		{
			name:    "err. wrong password maps to 400",
			setAuth: true,
			mockBehavior: func(env testEnv) {
				env.auth.EXPECT().
					Authenticate(gomock.Any(), adminEmail, adminPassword).
					Return(model.Principal{}, errs.ErrBadCredential)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"wrong password"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			tt.mockBehavior(env)

			r := httptest.NewRequest(http.MethodGet, "/borrows", http.NoBody)
			if tt.setAuth {
				r.SetBasicAuth(adminEmail, adminPassword)
			}
			w := httptest.NewRecorder()
			env.e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_RequestBorrow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	member := model.Principal{UserID: "user007", Name: "Andrea", Role: model.RoleMember}
	env.auth.EXPECT().
		Authenticate(gomock.Any(), "andrea@mail.com", "rahasia").
		Return(member, nil)

	requestedAt := time.Date(2023, time.June, 13, 0, 0, 0, 0, time.UTC)
	created := model.Borrow{
		ID:            "brw001",
		BookID:        "bk012",
		UserID:        "user007",
		BookTitle:     "Supernova",
		MemberName:    "Andrea",
		Status:        model.StatusRequested,
		RequestedDate: &requestedAt,
	}
	env.borrow.EXPECT().
		RequestBorrow(gomock.Any(), member, "bk012").
		Return(created, nil)

	r := httptest.NewRequest(http.MethodPost, "/borrow/bk012", http.NoBody)
	r.SetBasicAuth("andrea@mail.com", "rahasia")
	w := httptest.NewRecorder()
	env.e.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, mustJSON(t, created), w.Body.String())
}

func TestHandler_Welcome(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	w := httptest.NewRecorder()
	env.e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Welcome to API Perpustakaan"}`, w.Body.String())
}

func TestHandler_GetBorrowFormatsDates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	expectAdminAuth(env)

	detail := model.BorrowDetail{
		ID:            "brw045",
		BookID:        "bk012",
		UserID:        "user007",
		BookTitle:     "Supernova",
		MemberName:    "Andrea",
		Status:        model.StatusApproved,
		ApproveAdmin:  "Librarian",
		RequestedDate: "13 Jun 2023",
		ApprovedDate:  "15 Jun 2023",
	}
	env.borrow.EXPECT().
		GetBorrow(gomock.Any(), adminPrincipal, "brw045").
		Return(detail, nil)

	r := httptest.NewRequest(http.MethodGet, "/borrow/brw045", http.NoBody)
	r.SetBasicAuth(adminEmail, adminPassword)
	w := httptest.NewRecorder()
	env.e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `"requested_date":"13 Jun 2023"`)
	require.Contains(t, body, `"approved_date":"15 Jun 2023"`)
	require.NotContains(t, body, "returned_date")
}
