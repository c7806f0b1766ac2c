package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. Handlers map these onto HTTP statuses, so
// every rejected operation stays classifiable for the client.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeAuthorization = "AUTHORIZATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeStore         = "STORE_ERROR"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return NewAppError(CodeValidation, message, err)
}

func Authorization(message string) *AppError {
	return NewAppError(CodeAuthorization, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return NewAppError(CodeConflict, message, nil)
}

// Store wraps a persistence failure. The underlying error is kept for logs
// but never shown to the caller.
func Store(err error) *AppError {
	return NewAppError(CodeStore, "internal storage error", err)
}

// CodeOf extracts the taxonomy code from err, or CodeStore if err is not an
// AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStore
}
