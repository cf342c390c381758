package errors

import (
	"net/http"

	"cinevault/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"This email address is already registered",
		"",
	)

	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"Failed to create user",
		"",
	)

	ErrUserUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_UPDATE_FAILED",
		"Failed to update user",
		"",
	)

	// Profile-related errors
	ErrProfileNotFound = NewBaseError(
		http.StatusNotFound,
		"PROFILE_NOT_FOUND",
		"User profile not found",
		"",
	)

	// Favorites-related errors
	ErrInvalidMediaKind = NewBaseError(
		http.StatusBadRequest,
		"INVALID_MEDIA_KIND",
		"Media kind must be 'movie' or 'tv'",
		"",
	)

	ErrFavoritesUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"FAVORITES_UPDATE_FAILED",
		"Failed to update favorites",
		"",
	)

	// Authentication-related errors
	ErrAuthNotFound = NewBaseError(
		http.StatusUnauthorized,
		"AUTH_NOT_FOUND",
		"Authentication method not found",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email or password",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Invalid or expired refresh token",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Password processing error",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"Password does not meet strength requirements",
		"",
	)

	// OAuth-related errors
	ErrOAuthFailed = NewBaseError(
		http.StatusUnauthorized,
		"OAUTH_FAILED",
		"OAuth authentication failed",
		"",
	)

	ErrOAuthTokenInvalid = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_TOKEN_INVALID",
		"Invalid ID token",
		"",
	)

	// MFA-related errors
	ErrFactorNotFound = NewBaseError(
		http.StatusNotFound,
		"FACTOR_NOT_FOUND",
		"Second factor not found",
		"",
	)

	ErrChallengeNotFound = NewBaseError(
		http.StatusNotFound,
		"CHALLENGE_NOT_FOUND",
		"Challenge not found",
		"",
	)

	ErrChallengeExpired = NewBaseError(
		http.StatusUnauthorized,
		"CHALLENGE_EXPIRED",
		"Challenge has expired, request a new one",
		"",
	)

	ErrTooManyAttempts = NewBaseError(
		http.StatusTooManyRequests,
		"TOO_MANY_ATTEMPTS",
		"Too many incorrect codes, request a new challenge",
		"",
	)

	ErrCodeInvalid = NewBaseError(
		http.StatusUnauthorized,
		"CODE_INVALID",
		"The verification code is incorrect",
		"",
	)

	ErrStepUpRequired = NewBaseError(
		http.StatusForbidden,
		"STEP_UP_REQUIRED",
		"A second-factor verification is required",
		"",
	)

	// Catalog-related errors
	ErrMediaNotFound = NewBaseError(
		http.StatusNotFound,
		"MEDIA_NOT_FOUND",
		"The requested title could not be found",
		"",
	)

	ErrMetadataUnavailable = NewBaseError(
		http.StatusBadGateway,
		"METADATA_UNAVAILABLE",
		"The metadata provider is unavailable",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Refresh token-related errors
	ErrRefreshTokenNotFound = NewBaseError(
		http.StatusNotFound,
		"REFRESH_TOKEN_NOT_FOUND",
		"Refresh token not found",
		"",
	)

	ErrRefreshTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_EXPIRED",
		"Refresh token has expired",
		"",
	)

	ErrSessionLimitExceeded = NewBaseError(
		http.StatusTooManyRequests,
		"SESSION_LIMIT_EXCEEDED",
		"Maximum number of concurrent sessions reached",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
