// File: internal/handler/users/create_user.go
package users

import (
	"net/http"

	"user-center/internal/dto"
	"user-center/internal/handler"
	"user-center/internal/middleware"
	"user-center/internal/response"
	"user-center/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateUserHandler creates an active user.
// @Summary     Create a user
// @Description The new user is active. Usernames are unique.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateUserRequest true "new user"
// @Success     201  {object} dto.Response{data=dto.UserResponse}
// @Failure     401  {object} dto.Response
// @Failure     409  {object} dto.Response
// @Failure     422  {object} dto.Response
// @Security    BearerAuth
// @Router      /users [post]
func CreateUserHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateUserRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		w := middleware.UnitOfWorkFrom(c)
		created, err := deps.Users(w).Create(c.Request().Context(), req)
		if err != nil {
			return err
		}
		if err := middleware.CommitUnitOfWork(c); err != nil {
			return err
		}
		return response.Success(c, http.StatusCreated, "User created", created)
	}
}
