// Package errors provides custom error types for the guestgate API.
// Service and middleware errors should use AppError so every error response
// carries the same envelope and never leaks driver detail to callers.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Category is the short status label used as the "error" field of the envelope.
func (e *AppError) Category() string { return http.StatusText(e.StatusCode) }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrBodyTooLarge   = &AppError{Code: "BODY_TOO_LARGE", Message: "Request body exceeds the maximum allowed size", StatusCode: http.StatusRequestEntityTooLarge}
	ErrRouteNotFound  = &AppError{Code: "ROUTE_NOT_FOUND", Message: "Route not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred", StatusCode: http.StatusInternalServerError}
)

// License errors.
var (
	ErrAPIKeyRequired   = &AppError{Code: "API_KEY_REQUIRED", Message: "API key is required. Please provide x-api-key header.", StatusCode: http.StatusUnauthorized}
	ErrInvalidAPIKey    = &AppError{Code: "INVALID_API_KEY", Message: "Invalid API key.", StatusCode: http.StatusUnauthorized}
	ErrLicenseInactive  = &AppError{Code: "LICENSE_INACTIVE", Message: "API key is inactive. Please contact administrator.", StatusCode: http.StatusForbidden}
	ErrLicenseExpired   = &AppError{Code: "LICENSE_EXPIRED", Message: "API key has expired. Please renew your license.", StatusCode: http.StatusForbidden}
	ErrIPNotAllowed     = &AppError{Code: "IP_NOT_ALLOWED", Message: "API key is not authorized from this IP address.", StatusCode: http.StatusForbidden}
	ErrQuotaExceeded    = &AppError{Code: "QUOTA_EXCEEDED", Message: "Daily request limit has been reached.", StatusCode: http.StatusTooManyRequests}
	ErrLicenseCheckFail = &AppError{Code: "LICENSE_VALIDATION_FAILED", Message: "Error validating API key.", StatusCode: http.StatusInternalServerError}
)

// Guest errors.
var (
	ErrGuestNotFound     = &AppError{Code: "GUEST_NOT_FOUND", Message: "Guest not found", StatusCode: http.StatusNotFound}
	ErrGuestReadFailed   = &AppError{Code: "GUEST_READ_FAILED", Message: "An error occurred while retrieving guest information", StatusCode: http.StatusInternalServerError}
	ErrGuestUpdateFailed = &AppError{Code: "GUEST_UPDATE_FAILED", Message: "An error occurred while updating guest information", StatusCode: http.StatusInternalServerError}
)
