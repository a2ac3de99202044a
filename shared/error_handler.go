package shared

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// StatusCode is the HTTP status ErrorHandler will render for err.
func StatusCode(err error) int {
	if appErr, ok := GetAppError(err); ok {
		return appErr.StatusCode
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders handler errors as {code, message, data}. Causes are
// logged, never sent.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := GetAppError(err); ok {
		entry := log.WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": appErr.StatusCode,
		})
		if appErr.Err != nil {
			entry = entry.WithError(appErr.Err)
		}
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			entry.Error(appErr.Message)
		} else {
			entry.Debug(appErr.Message)
		}
		return ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Unhandled error")
	return ResponseInternalError(c)
}
