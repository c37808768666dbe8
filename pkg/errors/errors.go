package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrDateOrder          = errors.New("date order wrong")
	ErrTimeOrder          = errors.New("time order wrong")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidDayOfWeek   = errors.New("invalid day of week")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrIDSetOnCreate      = errors.New("id set on create")
	ErrVersionSetOnCreate = errors.New("version set on create")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// EntityNotFound reports a missing entity by id.
func EntityNotFound(resource string, id fmt.Stringer) *AppError {
	return NotFound(resource).WithDetails(map[string]string{"id": id.String()})
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// ============================================================================
// DOMAIN ERRORS
// ============================================================================

// DateOrderWrong is returned when an interval's bounds are inverted or out of sequence.
func DateOrderWrong(from, to string) *AppError {
	return &AppError{
		Err:        ErrDateOrder,
		Code:       "DATE_ORDER_WRONG",
		Message:    fmt.Sprintf("date %s must not be after %s", from, to),
		StatusCode: http.StatusBadRequest,
		Details:    map[string]string{"from": from, "to": to},
	}
}

func TimeOrderWrong(from, to string) *AppError {
	return &AppError{
		Err:        ErrTimeOrder,
		Code:       "TIME_ORDER_WRONG",
		Message:    fmt.Sprintf("time %s must be before %s", from, to),
		StatusCode: http.StatusBadRequest,
		Details:    map[string]string{"from": from, "to": to},
	}
}

// InvalidDate covers calendar component range failures such as week 53 in a 52 week year.
func InvalidDate(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidDate,
		Code:       "INVALID_DATE",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// InvalidDayOfWeek signals corrupt stored calendar data, not bad user input.
func InvalidDayOfWeek(n int) *AppError {
	return &AppError{
		Err:        ErrInvalidDayOfWeek,
		Code:       "INVALID_DAY_OF_WEEK",
		Message:    fmt.Sprintf("invalid day of week: %d", n),
		StatusCode: http.StatusInternalServerError,
	}
}

func DatabaseQuery(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrDatabaseQuery, err),
		Code:       "DATABASE_QUERY_ERROR",
		Message:    "database query failed",
		StatusCode: http.StatusInternalServerError,
	}
}

func IDSetOnCreate() *AppError {
	return &AppError{
		Err:        ErrIDSetOnCreate,
		Code:       "ID_SET_ON_CREATE",
		Message:    "id must not be set on create",
		StatusCode: http.StatusBadRequest,
	}
}

func VersionSetOnCreate() *AppError {
	return &AppError{
		Err:        ErrVersionSetOnCreate,
		Code:       "VERSION_SET_ON_CREATE",
		Message:    "version must not be set on create",
		StatusCode: http.StatusBadRequest,
	}
}

// EntityConflicts is the optimistic concurrency failure on update.
func EntityConflicts(id, expected, actual fmt.Stringer) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "ENTITY_CONFLICTS",
		Message:    fmt.Sprintf("entity %s was modified concurrently", id),
		StatusCode: http.StatusConflict,
		Details: map[string]string{
			"id":               id.String(),
			"expected_version": expected.String(),
			"actual_version":   actual.String(),
		},
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Err:        ErrTokenExpired,
		Code:       "TOKEN_EXPIRED",
		Message:    "token has expired",
		StatusCode: http.StatusUnauthorized,
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Err:        ErrTokenInvalid,
		Code:       "TOKEN_INVALID",
		Message:    "invalid token",
		StatusCode: http.StatusUnauthorized,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
