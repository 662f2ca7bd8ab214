// File: internal/handler/bind.go
package handler

import (
	"user-center/internal/apperror"

	"github.com/labstack/echo/v4"
)

// BindAndValidate decodes the request into req and runs the registered
// validator. A body that cannot be decoded is a validation failure.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.Wrap(apperror.KindValidation, "body: could not be parsed", err)
	}
	return c.Validate(req)
}
