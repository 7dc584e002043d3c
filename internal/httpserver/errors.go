package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Skotchmaster/order_ledger/internal/domain"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrIntegrity):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrConnection):
		return http.StatusServiceUnavailable, "store unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// fail logs err under event and converts it to an echo.HTTPError.
func fail(l *logrus.Entry, event string, err error) error {
	status, msg := statusFor(err)
	fields := l.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		fields.Error(event)
	} else {
		fields.Warn(event)
	}
	return echo.NewHTTPError(status, msg)
}
