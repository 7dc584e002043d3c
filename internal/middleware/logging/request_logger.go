package loggingmw

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/logging"
)

// RequestLogger puts a request-scoped entry into the request context and logs
// one line per request once the handler returns.
func RequestLogger(base *logrus.Entry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"url":        c.Request().URL.Path,
				"remote_ip":  c.RealIP(),
				"user_agent": c.Request().UserAgent(),
			})
			if rid != "" {
				l = l.WithField("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			done := l.WithFields(logrus.Fields{"status": status, "duration_ms": dur.Milliseconds()})
			switch {
			case err != nil || status >= 500:
				if err != nil {
					done = done.WithError(err)
				}
				done.Error("request completed")
			case status >= 400:
				done.Warn("request completed")
			default:
				done.WithField("bytes", c.Response().Size).Info("request completed")
			}
			return nil
		}
	}
}
