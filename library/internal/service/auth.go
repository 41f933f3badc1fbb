package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

const tokenType = "Bearer"

var ErrLogoutUnsupported = errors.New("logout requires a token denylist")

// Register creates a MEMBER account and signs the user in.
func (s *Service) Register(ctx context.Context, req model.UserCreateRequest) (model.AuthResponse, error) {
	req.Role = model.RoleMember
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return s.authResponse(user)
}

func (s *Service) Login(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	return s.authResponse(user)
}

// Logout revokes the caller's token until it expires.
func (s *Service) Logout(ctx context.Context) error {
	if s.revoker == nil {
		return ErrLogoutUnsupported
	}
	p, err := auth.GetPrincipal(ctx)
	if err != nil {
		return errs.New(errs.ErrUnauthorized, err.Error())
	}
	return s.revoker.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

func (s *Service) authResponse(user model.User) (model.AuthResponse, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		Token:     token,
		Type:      tokenType,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}
