package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors raised by entities, value objects and repositories.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrResource      = errors.New("resource error")
	ErrInternal      = errors.New("internal error")
)

// Kind is the closed set of failure tags returned by application services.
type Kind string

const (
	KindResource         Kind = "ResourceError"
	KindParameters       Kind = "ParametersError"
	KindSystem           Kind = "SystemError"
	KindResourceConflict Kind = "ResourceConflictError"
	KindResourceNotFound Kind = "ResourceNotFoundError"
	KindUnauthorized     Kind = "UnauthorizedError"
)

// AppError is the failure value every application-service operation returns
// in place of its success output.
type AppError struct {
	Kind    Kind   `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ResourceNotFound builds a ResourceNotFoundError failure.
func ResourceNotFound(message string) *AppError {
	return &AppError{
		Kind:    KindResourceNotFound,
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// NotFound builds a ResourceNotFoundError naming the missing resource.
func NotFound(resource, id string) *AppError {
	return ResourceNotFound(fmt.Sprintf("%s with id %s not found", resource, id))
}

// ResourceConflict builds a ResourceConflictError failure.
func ResourceConflict(message string) *AppError {
	return &AppError{
		Kind:    KindResourceConflict,
		Code:    "ALREADY_EXISTS",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// AlreadyExists builds a ResourceConflictError naming the colliding field.
func AlreadyExists(resource, field, value string) *AppError {
	return ResourceConflict(fmt.Sprintf("%s with %s %q already exists", resource, field, value))
}

// ResourceFailure builds a generic ResourceError failure.
func ResourceFailure(message string) *AppError {
	return &AppError{
		Kind:    KindResource,
		Code:    "RESOURCE_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrResource,
	}
}

// Parameters builds a ParametersError failure for malformed or out-of-range input.
func Parameters(message string) *AppError {
	return &AppError{
		Kind:    KindParameters,
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized builds an UnauthorizedError failure.
func Unauthorized(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// System builds a SystemError failure carrying the message of the cause.
func System(message string) *AppError {
	return &AppError{
		Kind:    KindSystem,
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrInternal,
	}
}

// Invalid returns an error wrapping ErrInvalidInput. Entities and value
// objects use it so the service boundary maps it to ParametersError.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Failed converts any error into an *AppError. Failures pass through
// untouched, known sentinels map to their kind, everything else becomes a
// SystemError. The order of the checks is significant.
func Failed(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return ResourceNotFound(err.Error())
	case errors.Is(err, ErrAlreadyExists):
		return ResourceConflict(err.Error())
	case errors.Is(err, ErrInvalidInput):
		return Parameters(err.Error())
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized(err.Error())
	case errors.Is(err, ErrResource):
		return ResourceFailure(err.Error())
	default:
		return System(err.Error())
	}
}

// KindOf returns the failure kind carried by err, or "" when err is nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Failed(err).Kind
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return Failed(err).Status
}
