package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

type revokedTokens map[string]time.Time

func (r revokedTokens) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r[tokenID] = expiresAt
	return nil
}

func TestService_RegisterLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 1)

	resp, err := f.svc.Register(ctx, model.UserCreateRequest{
		Username: "carol",
		Password: "s3cret-pass",
		Email:    "carol@example.com",
		FullName: "Carol C",
		Role:     model.RoleLibrarian,
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.Type)
	require.Equal(t, model.RoleMember, resp.Role)
	require.Equal(t, "Carol C", resp.FullName)
	require.Equal(t, int64(3600), resp.ExpiresIn)

	p, err := f.svc.tokens.Parse(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, p.UserID)
	require.Equal(t, auth.RoleMember, p.Role)

	_, err = f.svc.Register(ctx, model.UserCreateRequest{Username: "carol", Password: "x", Email: "c2@example.com"})
	require.ErrorIs(t, err, errs.ErrUsernameTaken)

	login, err := f.svc.Login(ctx, model.AuthRequest{Username: "carol", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.Equal(t, resp.UserID, login.UserID)

	_, err = f.svc.Login(ctx, model.AuthRequest{Username: "carol", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, model.AuthRequest{Username: "nobody", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	stored, err := f.svc.GetUserByUsername(ctx, "carol")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
}

func TestService_Logout(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(time.Hour)
	ctx := auth.SetAuthContext(context.Background(), auth.Principal{UserID: 1, TokenID: "jti-1", ExpiresAt: exp})

	f := newFixture(t, 1)
	require.ErrorIs(t, f.svc.Logout(ctx), ErrLogoutUnsupported)

	revoked := revokedTokens{}
	WithRevoker(revoked)(f.svc)
	require.NoError(t, f.svc.Logout(ctx))
	require.Equal(t, exp, revoked["jti-1"])

	require.ErrorIs(t, f.svc.Logout(context.Background()), errs.ErrUnauthorized)
}

func TestService_UpdateUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	member := auth.SetAuthContext(context.Background(), auth.Principal{UserID: f.member.ID, Role: auth.RoleMember})
	librarian := auth.SetAuthContext(context.Background(), auth.Principal{UserID: 100, Role: auth.RoleLibrarian})

	updated, err := f.svc.UpdateUser(member, f.member.ID, model.UserUpdateRequest{
		Email:    "alice@new.example.com",
		FullName: "Alice A",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@new.example.com", updated.Email)
	require.Equal(t, model.RoleMember, updated.Role)

	_, err = f.svc.UpdateUser(member, f.member.ID, model.UserUpdateRequest{
		Email:    "alice@new.example.com",
		FullName: "Alice A",
		Role:     model.RoleLibrarian,
	})
	require.ErrorIs(t, err, errs.ErrNotAllowed)

	promoted, err := f.svc.UpdateUser(librarian, f.member.ID, model.UserUpdateRequest{
		Email:    "alice@new.example.com",
		FullName: "Alice A",
		Role:     model.RoleLibrarian,
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleLibrarian, promoted.Role)

	_, err = f.svc.UpdateUser(librarian, 999, model.UserUpdateRequest{Email: "x@example.com", FullName: "x"})
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestService_EnsureLibrarian(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 1)

	req := model.UserCreateRequest{
		Username: "admin",
		Password: "admin-pass",
		Email:    "admin@library.local",
		FullName: "Head Librarian",
	}
	require.NoError(t, f.svc.EnsureLibrarian(ctx, req))
	require.NoError(t, f.svc.EnsureLibrarian(ctx, req))

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	admin, err := f.svc.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, model.RoleLibrarian, admin.Role)

	require.NoError(t, f.svc.DeleteUser(ctx, admin.ID))
	_, err = f.svc.GetUser(ctx, admin.ID)
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}
