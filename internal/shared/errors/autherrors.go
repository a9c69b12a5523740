package errors

import (
	stderrors "errors"
	"net/http"
)

const ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"

// AuthError is an authentication failure. ShouldLog is false for expected
// failures such as a mistyped password.
type AuthError struct {
	*AppError
	ShouldLog bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialsError does not reveal whether the email or the password was wrong.
func NewInvalidCredentialsError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "invalid email or password",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog: false,
	}
}

// IsAuthError checks if the error is an AuthError (supports wrapped errors via errors.As)
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// IsInvalidCredentialsError checks for a failed login
func IsInvalidCredentialsError(err error) bool {
	return isType(err, ErrorTypeInvalidCredentials)
}

// ShouldLogAuthError returns true if the authentication error should be logged
func ShouldLogAuthError(err error) bool {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr.ShouldLog
	}
	return true
}
