package utils

import (
	"errors"
	"fmt"
	"net/http"

	"helpnet/models"
)

// ServiceError carries an error code, a user-facing message and the HTTP
// status it should map to at the transport layer.
type ServiceError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Details    interface{} `json:"details,omitempty"`
	Cause      error       `json:"-"`
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func NewValidationError(message string, details interface{}) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func NewAuthenticationError(message string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewAuthorizationError(message string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeAuthorization,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewNotFoundError(resource string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewTerminalStateError signals a mutation attempted on an emergency that
// has already been resolved or cancelled.
func NewTerminalStateError(status string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeTerminalState,
		Message:    fmt.Sprintf("emergency is already %s", status),
		StatusCode: http.StatusConflict,
	}
}

func NewRateLimitError(message string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewExternalServiceError(service string, cause error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrCodeExternal,
		Message:    fmt.Sprintf("%s is unavailable", service),
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

func GetServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
