// File: internal/service/user.go
package service

import (
	"context"
	"errors"

	"user-center/internal/apperror"
	"user-center/internal/dto"
	"user-center/internal/model"
	"user-center/internal/repository"
	"user-center/internal/uow"

	"go.uber.org/zap"
)

const (
	msgUserNotFound  = "User not found"
	msgUsernameTaken = "Username already exists"
	msgNameNull      = "name: must not be null"
)

// UserService owns the business rules around user records. It never commits;
// the owner of the unit of work decides when its writes become visible.
type UserService struct {
	w      uow.UnitOfWork
	hasher PasswordHasher
	log    *zap.Logger
}

func NewUserService(w uow.UnitOfWork, hasher PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{w: w, hasher: hasher, log: log}
}

func (s *UserService) users() repository.UserRepository { return s.w.Users() }

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users().GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users().GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	return u, nil
}

// List returns one page of projections and the filtered total.
func (s *UserService) List(ctx context.Context, f repository.UserFilter) ([]dto.UserResponse, int, error) {
	users, total, err := s.users().List(ctx, f)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list users", err)
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return items, total, nil
}

// Create hashes the password before the first repository call.
func (s *UserService) Create(ctx context.Context, in dto.CreateUserRequest) (dto.UserResponse, error) {
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	taken, err := s.users().ExistsByUsername(ctx, in.Username)
	if err != nil {
		return dto.UserResponse{}, apperror.Internal("failed to check username", err)
	}
	if taken {
		return dto.UserResponse{}, apperror.Conflict(msgUsernameTaken)
	}

	u := &model.User{
		Username:     in.Username,
		PasswordHash: digest,
		Name:         in.Name,
		Avatar:       in.Avatar,
		IsActive:     true,
	}
	if err := s.users().Create(ctx, u); err != nil {
		// lost the race against a concurrent create of the same username
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.UserResponse{}, apperror.Wrap(apperror.KindConflict, msgUsernameTaken, err)
		}
		return dto.UserResponse{}, apperror.Internal("failed to create user", err)
	}
	s.log.Info("user created", zap.String("id", u.ID), zap.String("username", u.Username))
	return dto.NewUserResponse(*u), nil
}

// Update applies only the fields present in the request.
func (s *UserService) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (dto.UserResponse, error) {
	if in.Name.Set && !in.Name.Valid {
		return dto.UserResponse{}, apperror.Validation(msgNameNull)
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if in.Name.Set {
		u.Name = in.Name.Value
	}
	if in.Avatar.Set {
		u.Avatar = in.Avatar.Ptr()
	}
	if err := s.save(ctx, u); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(*u), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users().Delete(ctx, u); err != nil {
		return apperror.Internal("failed to delete user", err)
	}
	s.log.Info("user deleted", zap.String("id", id))
	return nil
}

func (s *UserService) ToggleActive(ctx context.Context, id string) (dto.UserResponse, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	u.IsActive = !u.IsActive
	if err := s.save(ctx, u); err != nil {
		return dto.UserResponse{}, err
	}
	s.log.Info("user active flag toggled", zap.String("id", id), zap.Bool("is_active", u.IsActive))
	return dto.NewUserResponse(*u), nil
}

// EnsureUser creates an active user unless username already exists. It
// reports whether a user was created.
func (s *UserService) EnsureUser(ctx context.Context, username, password, name string) (bool, error) {
	exists, err := s.users().ExistsByUsername(ctx, username)
	if err != nil {
		return false, apperror.Internal("failed to check username", err)
	}
	if exists {
		return false, nil
	}
	if _, err := s.Create(ctx, dto.CreateUserRequest{Username: username, Name: name, Password: password}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) save(ctx context.Context, u *model.User) error {
	if err := s.users().Update(ctx, u); err != nil {
		return apperror.Internal("failed to update user", err)
	}
	return nil
}
