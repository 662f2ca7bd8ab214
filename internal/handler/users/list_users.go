// File: internal/handler/users/list_users.go
package users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"user-center/internal/apperror"
	"user-center/internal/dto"
	"user-center/internal/middleware"
	"user-center/internal/repository"
	"user-center/internal/response"
	"user-center/internal/service"

	"github.com/labstack/echo/v4"
)

// bindListQuery reads skip, limit and is_active, applying defaults for the
// ones that are absent. Every unparsable parameter is reported.
func bindListQuery(c echo.Context) (dto.ListUsersQuery, error) {
	q := dto.ListUsersQuery{Skip: 0, Limit: dto.DefaultListLimit}
	errs := echo.QueryParamsBinder(c).
		FailFast(false).
		Int("skip", &q.Skip).
		Int("limit", &q.Limit).
		CustomFunc("is_active", func(values []string) []error {
			v, err := strconv.ParseBool(values[0])
			if err != nil {
				return []error{echo.NewBindingError("is_active", values, "must be a boolean", err)}
			}
			q.IsActive = &v
			return nil
		}).
		BindErrors()
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			var be *echo.BindingError
			if errors.As(err, &be) && be.Field == "is_active" {
				msgs = append(msgs, "is_active: must be a boolean")
				continue
			}
			if errors.As(err, &be) {
				msgs = append(msgs, be.Field+": must be an integer")
				continue
			}
			msgs = append(msgs, err.Error())
		}
		return q, apperror.Validation(strings.Join(msgs, "; "))
	}
	if err := c.Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}

// ListUsersHandler returns one page of users.
// @Summary     List users
// @Description Newest first. total counts the filtered set before paging.
// @Tags        users
// @Produce     json
// @Param       skip      query    int  false "rows to skip"  default(0)  minimum(0)
// @Param       limit     query    int  false "page size"     default(100) minimum(1) maximum(1000)
// @Param       is_active query    bool false "filter by active flag"
// @Success     200       {object} dto.Response{data=dto.UserListResponse}
// @Failure     401       {object} dto.Response
// @Failure     422       {object} dto.Response
// @Security    BearerAuth
// @Router      /users [get]
func ListUsersHandler(deps service.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := bindListQuery(c)
		if err != nil {
			return err
		}
		w := middleware.UnitOfWorkFrom(c)
		items, total, err := deps.Users(w).List(c.Request().Context(), repository.UserFilter{
			Skip:     q.Skip,
			Limit:    q.Limit,
			IsActive: q.IsActive,
		})
		if err != nil {
			return err
		}
		return response.Success(c, http.StatusOK, "", dto.UserListResponse{
			Items: items,
			Total: total,
			Skip:  q.Skip,
			Limit: q.Limit,
		})
	}
}
