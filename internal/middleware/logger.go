package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const HeaderProcessTime = "X-Process-Time"

// RequestLogger logs each request and stamps X-Process-Time (seconds) on the
// response. Handler errors are rendered here so the logged status is final.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()
			res.Before(func() {
				res.Header().Set(HeaderProcessTime, strconv.FormatFloat(time.Since(start).Seconds(), 'f', 6, 64))
			})

			log.Debug("request started",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)

			if err := next(c); err != nil {
				c.Error(err)
			}

			log.Info("request completed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			)
			return nil
		}
	}
}
