// File: internal/handler/users/toggle_active.go
package users

import (
	"net/http"

	"user-center/internal/middleware"
	"user-center/internal/response"
	"user-center/internal/service"

	"github.com/labstack/echo/v4"
)

// ToggleActiveHandler flips is_active.
// @Summary     Toggle active flag
// @Tags        users
// @Produce     json
// @Param       id  path     string true "user id"
// @Success     200 {object} dto.Response{data=dto.UserResponse}
// @Failure     401 {object} dto.Response
// @Failure     404 {object} dto.Response
// @Security    BearerAuth
// @Router      /users/{id}/toggle-active [patch]
func ToggleActiveHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		w := middleware.UnitOfWorkFrom(c)
		updated, err := deps.Users(w).ToggleActive(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		if err := middleware.CommitUnitOfWork(c); err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "", updated)
	}
}
