package handler_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"

	service_mocks "github.com/Astemirdum/library-management/library/internal/handler/mocks"
)

func TestHandler_Users(t *testing.T) {
	t.Parallel()
	alice := model.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "$2a$10$secret",
		Role:         model.RoleMember,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	aliceJSON := `{"id":1,"username":"alice","email":"alice@example.com","fullName":"Alice","phoneNumber":"","role":"MEMBER","createdAt":"2024-01-01T00:00:00Z"}`

	tests := []struct {
		name          string
		method        string
		target        string
		body          string
		authorization func(t *testing.T) string
		mockBehavior  func(r *service_mocks.MockUserService)
		expectedCode  int
		expectedBody  string
	}{
		{
			name:          "self without password hash",
			method:        http.MethodGet,
			target:        "/api/v1/users/1",
			authorization: func(t *testing.T) string { return bearer(t, 1, auth.RoleMember) },
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().GetUser(gomock.Any(), int64(1)).Return(alice, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: aliceJSON,
		},
		{
			name:          "other member",
			method:        http.MethodGet,
			target:        "/api/v1/users/2",
			authorization: func(t *testing.T) string { return bearer(t, 1, auth.RoleMember) },
			mockBehavior:  func(r *service_mocks.MockUserService) {},
			expectedCode:  http.StatusForbidden,
			expectedBody:  `{"message":"access denied"}`,
		},
		{
			name:          "list as member",
			method:        http.MethodGet,
			target:        "/api/v1/users",
			authorization: func(t *testing.T) string { return bearer(t, 1, auth.RoleMember) },
			mockBehavior:  func(r *service_mocks.MockUserService) {},
			expectedCode:  http.StatusForbidden,
			expectedBody:  `{"message":"forbidden"}`,
		},
		{
			name:          "search as librarian",
			method:        http.MethodGet,
			target:        "/api/v1/users/search/alice",
			authorization: func(t *testing.T) string { return bearer(t, 9, auth.RoleLibrarian) },
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(alice, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: aliceJSON,
		},
		{
			name:          "create duplicate email",
			method:        http.MethodPost,
			target:        "/api/v1/users",
			body:          `{"username":"alice2","password":"secret1","email":"alice@example.com","fullName":"Alice","role":"LIBRARIAN"}`,
			authorization: func(t *testing.T) string { return bearer(t, 9, auth.RoleLibrarian) },
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().CreateUser(gomock.Any(), model.UserCreateRequest{
					Username: "alice2",
					Password: "secret1",
					Email:    "alice@example.com",
					FullName: "Alice",
					Role:     model.RoleLibrarian,
				}).Return(model.User{}, errs.ErrEmailTaken)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"email is already registered"}`,
		},
		{
			name:          "self promotion",
			method:        http.MethodPut,
			target:        "/api/v1/users/1",
			body:          `{"email":"alice@example.com","fullName":"Alice","role":"LIBRARIAN"}`,
			authorization: func(t *testing.T) string { return bearer(t, 1, auth.RoleMember) },
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().UpdateUser(gomock.Any(), int64(1), model.UserUpdateRequest{
					Email:    "alice@example.com",
					FullName: "Alice",
					Role:     model.RoleLibrarian,
				}).Return(model.User{}, errs.ErrNotAllowed)
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"access denied"}`,
		},
		{
			name:          "delete referenced",
			method:        http.MethodDelete,
			target:        "/api/v1/users/1",
			authorization: func(t *testing.T) string { return bearer(t, 9, auth.RoleLibrarian) },
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().DeleteUser(gomock.Any(), int64(1)).Return(errs.ErrUserReferenced)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"user is referenced by transactions"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router, m := newRouter(t, false)
			tt.mockBehavior(m.users)

			w := do(t, router, tt.method, tt.target, tt.authorization(t), tt.body)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
