// File: internal/handler/error.go
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"user-center/internal/apperror"
	"user-center/internal/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgInternal = "Internal server error"

// ErrorHandler maps every error returned by a handler or middleware to the
// response envelope. Unclassified errors become a generic 500; their detail is
// only sent to the client when debug is on.
func ErrorHandler(log *zap.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		req := c.Request()
		if c.Response().Committed {
			log.Warn("error after response was written",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Error(err),
			)
			return
		}

		status, message := classify(err, debug)
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Warn("request rejected", fields...)
		}

		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if werr := response.Error(c, status, message); werr != nil {
			log.Error("failed to write error response", zap.Error(werr))
		}
	}
}

func classify(err error, debug bool) (int, string) {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Kind != apperror.KindInternal {
			return appErr.StatusCode(), appErr.Message
		}
		return http.StatusInternalServerError, internalMessage(err, debug)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, internalMessage(err, debug)
		}
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, msg
	}

	return http.StatusInternalServerError, internalMessage(err, debug)
}

func internalMessage(err error, debug bool) string {
	if debug {
		return msgInternal + ": " + err.Error()
	}
	return msgInternal
}
