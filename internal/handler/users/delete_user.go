// File: internal/handler/users/delete_user.go
package users

import (
	"net/http"

	"user-center/internal/middleware"
	"user-center/internal/response"
	"user-center/internal/service"

	"github.com/labstack/echo/v4"
)

// DeleteUserHandler permanently removes a user.
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id  path     string true "user id"
// @Success     200 {object} dto.Response
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Security    BearerAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		w := middleware.UnitOfWorkFrom(c)
		if err := deps.Users(w).Delete(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		if err := middleware.CommitUnitOfWork(c); err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "User deleted", nil)
	}
}
