// File: internal/handler/auth/logout.go
package auth

import (
	"net/http"

	"user-center/internal/response"

	"github.com/labstack/echo/v4"
)

// LogoutHandler acknowledges a logout. Tokens are stateless, the client
// discards its own.
// @Summary     Log out
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Security    BearerAuth
// @Router      /auth/logout [post]
func LogoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return response.Success(c, http.StatusOK, "Logout successful", nil)
	}
}
