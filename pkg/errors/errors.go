package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. They are returned to clients in the
// "code" field of the response envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	CodeReferenceNotFound  = "REFERENCE_NOT_FOUND"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeAuthentication     = "AUTHENTICATION_FAILURE"
	CodeForbidden          = "FORBIDDEN"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
)

var (
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrInvalidInput = errors.New("invalid input data")
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

func DuplicateAccount(message string) *AppError {
	return NewAppError(CodeDuplicateAccount, message, nil)
}

func ReferenceNotFound(message string) *AppError {
	return NewAppError(CodeReferenceNotFound, message, nil)
}

func AccountNotFound(message string) *AppError {
	return NewAppError(CodeAccountNotFound, message, nil)
}

// AuthenticationFailure never says which of email, password or role was wrong.
func AuthenticationFailure() *AppError {
	return NewAppError(CodeAuthentication, "Invalid email or password.", ErrInvalidCredentials)
}

// Forbidden is returned when an authenticated caller acts outside its own
// accounts.
func Forbidden(message string) *AppError {
	return NewAppError(CodeForbidden, message, ErrInsufficientPermissions)
}

func PersistenceFailure(message string, err error) *AppError {
	return NewAppError(CodePersistenceFailure, message, err)
}

// CodeOf returns the taxonomy code of err, or "" when err carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
