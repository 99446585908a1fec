package apperror

import "net/http"

// AppError is a custom error type that includes an HTTP status code and an optional underlying error.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound signals that a referenced entity does not exist, or that its
// existence is deliberately hidden from the caller.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Forbidden signals that the caller is known but not allowed to perform the action.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// Validation signals a domain-rule violation in the request.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Conflict signals a uniqueness violation (e.g. duplicate email).
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}
