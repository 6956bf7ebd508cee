package httpx

import (
	"fmt"
	"net/http"
)

// Business error codes
const (
	// Success
	CodeSuccess = 0

	// Authentication/Authorization errors (1000-1099)
	CodeUnauthorized = 1001 // Not logged in / token or API key missing
	CodeInvalidToken = 1002 // Token or API key invalid
	CodeTokenExpired = 1003 // Token expired
	CodeForbidden    = 1004 // No permission

	// Parameter errors (2000-2099)
	CodeParamMissing = 2001 // Required field missing
	CodeParamInvalid = 2002 // Field format error
	CodeParamIllegal = 2003 // Field value illegal

	// Resource/Business errors (3000-3999)
	CodeNotFound  = 3001 // Resource not found
	CodeDuplicate = 3002 // Duplicate submission, record already stored

	// System errors (5000-5999)
	CodeInternalError = 5001 // Internal service error
	CodeDatabaseError = 5002 // Database error
	CodeUpstreamError = 5003 // External dependency failure (LDAP, Redis)
)

// AppError represents an application error with HTTP status and business code
type AppError struct {
	HTTPStatus int         // HTTP status code
	Code       int         // Business error code
	Message    string      // User-facing error message
	Err        error       // Internal error (logged, never returned to clients)
	Data       interface{} // Additional data returned alongside the error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code=%d, message=%s, err=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code=%d, message=%s", e.Code, e.Message)
}

// WithData adds additional data to the error
func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

// NewAppError creates a new AppError
func NewAppError(httpStatus, code int, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Code:       code,
		Message:    message,
		Err:        err,
	}
}

// ErrUnauthorized creates a 401 unauthorized error
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// ErrInvalidToken creates a 401 invalid credential error
func ErrInvalidToken(message string) *AppError {
	if message == "" {
		message = "invalid token"
	}
	return NewAppError(http.StatusUnauthorized, CodeInvalidToken, message, nil)
}

// ErrTokenExpired creates a 401 token expired error
func ErrTokenExpired(message string) *AppError {
	if message == "" {
		message = "token expired"
	}
	return NewAppError(http.StatusUnauthorized, CodeTokenExpired, message, nil)
}

// ErrForbidden creates a 403 forbidden error
func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError(http.StatusForbidden, CodeForbidden, message, nil)
}

// ErrParamMissing creates a 400 required field missing error
func ErrParamMissing(message string) *AppError {
	if message == "" {
		message = "required field missing"
	}
	return NewAppError(http.StatusBadRequest, CodeParamMissing, message, nil)
}

// ErrParamInvalid creates a 400 field format error
func ErrParamInvalid(message string) *AppError {
	if message == "" {
		message = "field format error"
	}
	return NewAppError(http.StatusBadRequest, CodeParamInvalid, message, nil)
}

// ErrParamIllegal creates a 400 field value illegal error
func ErrParamIllegal(message string) *AppError {
	if message == "" {
		message = "field value illegal"
	}
	return NewAppError(http.StatusBadRequest, CodeParamIllegal, message, nil)
}

// ErrNotFound creates a 404 not found error
func ErrNotFound(message string) *AppError {
	if message == "" {
		message = "resource not found"
	}
	return NewAppError(http.StatusNotFound, CodeNotFound, message, nil)
}

// ErrDuplicate creates a 409 duplicate submission error. The handler attaches
// the originally assigned id via WithData so agents can treat it as acked.
func ErrDuplicate(message string) *AppError {
	if message == "" {
		message = "duplicate submission"
	}
	return NewAppError(http.StatusConflict, CodeDuplicate, message, nil)
}

// ErrInternalError creates a 500 internal error
func ErrInternalError(message string, err error) *AppError {
	if message == "" {
		message = "internal error"
	}
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, err)
}

// ErrDatabaseError creates a 500 database error
func ErrDatabaseError(message string, err error) *AppError {
	if message == "" {
		message = "database error"
	}
	return NewAppError(http.StatusInternalServerError, CodeDatabaseError, message, err)
}

// ErrUpstreamError creates a 502 external dependency error
func ErrUpstreamError(message string, err error) *AppError {
	if message == "" {
		message = "external dependency failure"
	}
	return NewAppError(http.StatusBadGateway, CodeUpstreamError, message, err)
}
