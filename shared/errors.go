package shared

import (
	"errors"
	"net/http"
)

// AppError is an error that carries the status code and message shown to the client.
// Err holds the underlying cause for logging and is never rendered.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	if message == "" {
		message = "Bad Request"
	}
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewValidationError(err error, details interface{}) *AppError {
	appErr := NewAppError(http.StatusBadRequest, err, "Validation failed")
	appErr.Data = details
	return appErr
}

func NewUnauthorizedError(err error, message string) *AppError {
	if message == "" {
		message = "Please log in to continue."
	}
	return NewAppError(http.StatusUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(http.StatusForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	if message == "" {
		message = "Not Found"
	}
	return NewAppError(http.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return NewAppError(http.StatusConflict, err, message)
}

func NewTooManyRequestsError(message string) *AppError {
	if message == "" {
		message = "Too many requests"
	}
	return NewAppError(http.StatusTooManyRequests, nil, message)
}

// NewInternalError hides err from the client behind a retry-style message.
func NewInternalError(err error, message string) *AppError {
	if message == "" {
		message = "Something went wrong. Please try again later."
	}
	return NewAppError(http.StatusInternalServerError, err, message)
}

func NewUpstreamUnavailableError(err error, message string) *AppError {
	if message == "" {
		message = "Course service is temporarily unavailable"
	}
	return NewAppError(http.StatusServiceUnavailable, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsStatus(err error, statusCode int) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.StatusCode == statusCode
}
