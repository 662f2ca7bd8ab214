// File: internal/service/service.go
package service

import (
	"user-center/internal/uow"

	"go.uber.org/zap"
)

// Deps are the process-wide collaborators services are built from. Services
// themselves are cheap and built per unit of work.
type Deps struct {
	Hasher PasswordHasher
	Tokens *TokenCodec
	Logger *zap.Logger
}

func (d Deps) Users(w uow.UnitOfWork) *UserService {
	return NewUserService(w, d.Hasher, d.Logger)
}

func (d Deps) Auth(w uow.UnitOfWork) *AuthService {
	return NewAuthService(w.Users(), d.Hasher, d.Tokens, d.Logger)
}
