package middleware

import (
	"context"
	"errors"
	"strings"

	"user-center/internal/apperror"
	"user-center/internal/model"
	"user-center/internal/service"
	"user-center/internal/uow"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const ContextUserKey = "user"

// MsgInvalidCredentials is reported for every rejected bearer token.
const MsgInvalidCredentials = "Could not validate credentials"

// UserResolver loads the user a token subject names.
type UserResolver func(ctx context.Context, username string) (*model.User, error)

// NewUserResolver looks the user up through its own unit of work, separate
// from the one the handler will use.
func NewUserResolver(f uow.Factory, deps service.Deps) UserResolver {
	return func(ctx context.Context, username string) (*model.User, error) {
		var user *model.User
		err := uow.Run(ctx, f, func(ctx context.Context, w uow.UnitOfWork) error {
			var err error
			user, err = deps.Users(w).GetByUsername(ctx, username)
			return err
		})
		return user, err
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// RequireAuth resolves the bearer token to a user and stores it under
// ContextUserKey. Every failure is reported the same way.
func RequireAuth(codec *service.TokenCodec, resolve UserResolver, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := authenticate(c, codec, resolve)
			if err != nil {
				log.Debug("authentication rejected",
					zap.String("path", c.Request().URL.Path),
					zap.Error(err),
				)
				return apperror.Unauthenticated(MsgInvalidCredentials)
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, codec *service.TokenCodec, resolve UserResolver) (*model.User, error) {
	raw, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := codec.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	user, err := resolve(c.Request().Context(), claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("subject resolved to no user")
	}
	return user, nil
}

// CurrentUser returns the user RequireAuth stored on c.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ContextUserKey).(*model.User)
	return u, ok && u != nil
}
