package middleware

import (
	"context"
	"errors"

	"user-center/internal/apperror"
	"user-center/internal/uow"

	"github.com/labstack/echo/v4"
)

const ContextUnitOfWorkKey = "uow"

// UnitOfWork opens one unit of work per request. It commits if the handler
// returns nil, rolls back otherwise, and always closes it. Handlers that
// write should call CommitUnitOfWork before sending their response.
func UnitOfWork(f uow.Factory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return uow.Run(c.Request().Context(), f, func(_ context.Context, w uow.UnitOfWork) error {
				c.Set(ContextUnitOfWorkKey, w)
				return next(c)
			})
		}
	}
}

// UnitOfWorkFrom returns the unit of work opened for this request.
func UnitOfWorkFrom(c echo.Context) uow.UnitOfWork {
	w, _ := c.Get(ContextUnitOfWorkKey).(uow.UnitOfWork)
	return w
}

// CommitUnitOfWork commits the request's unit of work so a failed commit is
// still reported to the client. The middleware's own commit then finds the
// unit closed and does nothing.
func CommitUnitOfWork(c echo.Context) error {
	w := UnitOfWorkFrom(c)
	if w == nil {
		return apperror.Internal("failed to commit", errors.New("no unit of work on request"))
	}
	if err := w.Commit(c.Request().Context()); err != nil {
		return apperror.Internal("failed to commit", err)
	}
	return nil
}
