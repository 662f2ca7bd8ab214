// File: internal/service/authentication.go
package service

import (
	"context"

	"user-center/internal/apperror"
	"user-center/internal/dto"
	"user-center/internal/model"
	"user-center/internal/repository"

	"go.uber.org/zap"
)

const (
	msgBadCredentials  = "Incorrect username or password"
	msgAccountDisabled = "User account is disabled"
)

// AuthService checks credentials and issues access tokens.
type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *TokenCodec
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens *TokenCodec, log *zap.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Authenticate returns the user owning username/password. Unknown users and
// wrong passwords fail with the same message; an inactive account is denied.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if user == nil {
		s.log.Warn("login failed: unknown user", zap.String("username", username))
		return nil, apperror.Unauthenticated(msgBadCredentials)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn("login failed: wrong password", zap.String("username", username))
		return nil, apperror.Unauthenticated(msgBadCredentials)
	}
	if !user.IsActive {
		s.log.Warn("login refused: account disabled", zap.String("username", username))
		return nil, apperror.Forbidden(msgAccountDisabled)
	}
	return user, nil
}

// IssueToken signs a token whose subject is the username.
func (s *AuthService) IssueToken(user *model.User) (dto.TokenResponse, error) {
	token, err := s.tokens.Sign(user.Username)
	if err != nil {
		return dto.TokenResponse{}, apperror.Internal("failed to issue token", err)
	}
	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   dto.TokenTypeBearer,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	resp, err := s.IssueToken(user)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	s.log.Info("user logged in", zap.String("username", user.Username))
	return resp, nil
}
