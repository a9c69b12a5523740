// Package errors provides application-level error types and utilities.
// Every business failure carries a stable ErrorType and the HTTP status a
// transport layer should map it to.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation           ErrorType = "validation_error"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeAlreadyExists        ErrorType = "already_exists"
	ErrorTypeIncidentInProgress   ErrorType = "incident_in_progress"
	ErrorTypeInUse                ErrorType = "in_use"
	ErrorTypeNotAuthorized        ErrorType = "not_authorized"
	ErrorTypeConcurrencyExhausted ErrorType = "concurrency_exhausted"
	ErrorTypeConflict             ErrorType = "conflict"
	ErrorTypeUnauthorized         ErrorType = "unauthorized"
	ErrorTypeInternal             ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewAlreadyExistsError creates an error for duplicate users or type names
func NewAlreadyExistsError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAlreadyExists, http.StatusConflict, message, details)
}

// NewIncidentInProgressError creates an error for a report that duplicates an open incident
func NewIncidentInProgressError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeIncidentInProgress, http.StatusConflict, message, details)
}

// NewInUseError creates an error for deleting something still referenced
func NewInUseError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInUse, http.StatusConflict, message, details)
}

// NewNotAuthorizedError creates an error for a caller lacking role, ownership or state
func NewNotAuthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotAuthorized, http.StatusForbidden, message, details)
}

// NewConcurrencyExhaustedError creates an error for a retry loop that gave up on version conflicts
func NewConcurrencyExhaustedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConcurrencyExhausted, http.StatusConflict, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewUnauthorizedError creates an error for unknown or unauthenticated callers
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

func IsAlreadyExistsError(err error) bool {
	return isType(err, ErrorTypeAlreadyExists)
}

func IsIncidentInProgressError(err error) bool {
	return isType(err, ErrorTypeIncidentInProgress)
}

func IsInUseError(err error) bool {
	return isType(err, ErrorTypeInUse)
}

func IsNotAuthorizedError(err error) bool {
	return isType(err, ErrorTypeNotAuthorized)
}

func IsConcurrencyExhaustedError(err error) bool {
	return isType(err, ErrorTypeConcurrencyExhausted)
}

func IsUnauthorizedError(err error) bool {
	return isType(err, ErrorTypeUnauthorized)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return isType(err, ErrorTypeConflict)
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL unique violation
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "violates unique constraint") {
		return true
	}
	// SQLite unique violation
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	return false
}
