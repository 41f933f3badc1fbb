package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

func (s *Service) CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}
	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	return s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// UpdateUser changes the profile; only a librarian may change a role.
func (s *Service) UpdateUser(ctx context.Context, id int64, req model.UserUpdateRequest) (model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if req.Role != "" && req.Role != user.Role {
		if !auth.IsLibrarian(ctx) {
			return model.User{}, errs.ErrNotAllowed
		}
		user.Role = req.Role
	}
	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	return s.repo.UpdateUser(ctx, user)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

// EnsureLibrarian creates the bootstrap librarian unless the username already exists.
func (s *Service) EnsureLibrarian(ctx context.Context, req model.UserCreateRequest) error {
	_, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return err
	}
	req.Role = model.RoleLibrarian
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return err
	}
	s.log.Info("bootstrap librarian created", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return nil
}
