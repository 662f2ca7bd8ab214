// Package response writes the {code, message, data} envelope.
package response

import (
	"net/http"

	"user-center/internal/dto"

	"github.com/labstack/echo/v4"
)

func envelope(status int, message string, data any) dto.Response {
	r := dto.Response{Code: status, Data: data}
	if message != "" {
		r.Message = &message
	}
	return r
}

// Success writes data with status. An empty message is sent as null.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope(status, message, data))
}

// Error writes an envelope with a null data field.
func Error(c echo.Context, status int, message string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(status)
	}
	return c.JSON(status, envelope(status, message, nil))
}
