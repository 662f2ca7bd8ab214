// File: internal/handler/health.go
package handler

import (
	"context"
	"net/http"
	"time"

	"user-center/internal/dto"
	"user-center/internal/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger is satisfied by the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RootHandler answers with the service name and version.
func RootHandler(name, version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return response.Success(c, http.StatusOK, "", dto.ServiceInfo{Name: name, Version: version})
	}
}

// HealthHandler pings the database.
func HealthHandler(db Pinger, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Error("health check: database ping failed", zap.Error(err))
			return response.Success(c, http.StatusServiceUnavailable, "Database unavailable",
				dto.HealthStatus{Status: "degraded", Database: "unavailable"})
		}
		return response.Success(c, http.StatusOK, "", dto.HealthStatus{Status: "ok", Database: "ok"})
	}
}
