// Package errors carries typed application errors across the navigation
// engine so transports can map them onto status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT"
	ErrorTypeInternal     ErrorType = "INTERNAL"
	// ErrorTypeUnavailable is returned while the graph data service is shed
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
	// ErrorTypeExternal wraps a failed graph data service or event bus call
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeRateLimit:    http.StatusTooManyRequests,
	ErrorTypeInternal:     http.StatusInternalServerError,
	ErrorTypeUnavailable:  http.StatusServiceUnavailable,
	ErrorTypeExternal:     http.StatusBadGateway,
}

// AppError is an error with a type, an optional provider code and details
type AppError struct {
	Type    ErrorType
	Message string
	// Code overrides Type in responses, e.g. with a DynamoDB error code
	Code    string
	Details map[string]interface{}
	Cause   error
}

func newError(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status is the HTTP status the error maps onto
func (e *AppError) Status() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Exposed reports whether Message is safe to show to callers.
// Internal failures are masked; dependency failures are not.
func (e *AppError) Exposed() bool {
	return e.Status() < http.StatusInternalServerError ||
		e.Type == ErrorTypeExternal || e.Type == ErrorTypeUnavailable
}

func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, message)
}

// NewNotFoundError reports a missing resource, e.g. "node" or "layout"
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, message)
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newError(ErrorTypeUnauthorized, message)
}

func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, message)
}

func NewRateLimitError(limit int, window string) *AppError {
	return newError(ErrorTypeRateLimit, fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window))
}

func NewUnavailableError(service string) *AppError {
	return newError(ErrorTypeUnavailable, fmt.Sprintf("service '%s' is unavailable", service))
}

func NewExternalError(service string, err error) *AppError {
	return newError(ErrorTypeExternal, fmt.Sprintf("external service '%s' error", service)).WithCause(err)
}

// GetAppError extracts the first AppError in err's chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

func IsUnavailable(err error) bool {
	return IsType(err, ErrorTypeUnavailable)
}

// HTTPStatus maps any error onto a status; plain errors are 500
func HTTPStatus(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Status()
	}
	return http.StatusInternalServerError
}

// Wrap prefixes err's message while keeping its type. Errors without a
// type become internal errors caused by err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)
	if appErr == nil {
		return NewInternalError(message).WithCause(err)
	}
	wrapped := *appErr
	wrapped.Message = message + ": " + appErr.Message
	return &wrapped
}
