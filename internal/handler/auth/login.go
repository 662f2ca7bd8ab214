// File: internal/handler/auth/login.go
package auth

import (
	"net/http"

	"user-center/internal/dto"
	"user-center/internal/handler"
	"user-center/internal/middleware"
	"user-center/internal/response"
	"user-center/internal/service"

	"github.com/labstack/echo/v4"
)

// LoginHandler exchanges username and password for an access token.
// @Summary     Log in
// @Description Verifies username and password and returns a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.LoginRequest true "credentials"
// @Success     200  {object} dto.Response{data=dto.TokenResponse}
// @Failure     401  {object} dto.Response
// @Failure     403  {object} dto.Response
// @Failure     422  {object} dto.Response
// @Router      /auth/login [post]
func LoginHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		w := middleware.UnitOfWorkFrom(c)
		token, err := deps.Auth(w).Login(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "Login successful", token)
	}
}
