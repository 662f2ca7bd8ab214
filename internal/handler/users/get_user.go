// File: internal/handler/users/get_user.go
package users

import (
	"net/http"

	"user-center/internal/dto"
	"user-center/internal/middleware"
	"user-center/internal/response"
	"user-center/internal/service"

	"github.com/labstack/echo/v4"
)

// GetUserHandler returns one user by id.
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id  path     string true "user id"
// @Success     200 {object} dto.Response{data=dto.UserResponse}
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Security    BearerAuth
// @Router      /users/{id} [get]
func GetUserHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		w := middleware.UnitOfWorkFrom(c)
		u, err := deps.Users(w).GetByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "", dto.NewUserResponse(*u))
	}
}
