// File: internal/handler/users/update_user.go
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

// UpdateUserHandler applies a partial update.
// @Summary     Update a user
// @Description Only the fields present in the body change. avatar: null clears the avatar.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     string                true "user id"
// @Param       body body     dto.UpdateUserRequest true "fields to change"
// @Success     200  {object} dto.Response{data=dto.UserResponse}
// @Failure     401  {object} dto.Response
// @Failure     404  {object} dto.Response
// @Failure     422  {object} dto.Response
// @Security    BearerAuth
// @Router      /users/{id} [put]
func UpdateUserHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.UpdateUserRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		w := middleware.UnitOfWorkFrom(c)
		updated, err := deps.Users(w).Update(c.Request().Context(), c.Param("id"), req)
		if err != nil {
			return err
		}
		if err := middleware.CommitUnitOfWork(c); err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "", updated)
	}
}
