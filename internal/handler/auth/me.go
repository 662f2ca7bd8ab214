// File: internal/handler/auth/me.go
package auth

import (
	"net/http"

	"user-center/internal/apperror"
	"user-center/internal/dto"
	"user-center/internal/middleware"
	"user-center/internal/response"

	"github.com/labstack/echo/v4"
)

// MeHandler returns the authenticated user. Mounted at /auth/me and /users/me.
// @Summary     Current user
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.Response{data=dto.UserResponse}
// @Failure     401 {object} dto.Response
// @Security    BearerAuth
// @Router      /auth/me [get]
func MeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return apperror.Unauthenticated(middleware.MsgInvalidCredentials)
		}
		return response.Success(c, http.StatusOK, "", dto.NewUserResponse(*user))
	}
}
