package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/pkg/response"
)

// statusFor maps application errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidAmount),
		errors.Is(err, application.ErrInsufficientBalance),
		errors.Is(err, application.ErrInsufficientSavings),
		errors.Is(err, application.ErrGoalRequired),
		errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrAlreadyVerified),
		errors.Is(err, application.ErrInvalidOTP),
		errors.Is(err, application.ErrOTPExpired):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrGoalNotFound),
		errors.Is(err, application.ErrPlanNotFound),
		errors.Is(err, application.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrSearchUnavailable),
		errors.Is(err, application.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err as an error envelope. Internal errors are logged and hidden.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("request failed")
		}
		response.Error[any](c, status, "internal server error", nil)
		return
	}
	var ve *application.ValidationError
	if errors.As(err, &ve) {
		response.Error[any](c, status, "invalid payload", map[string]string{ve.Field: ve.Message})
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}
