package errors

import "fmt"

// ConnectionError represents a transport-level failure: the device is
// unreachable, the request timed out, or the response could not be read.
type ConnectionError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying transport failure, if any
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(message string, err error) *ConnectionError {
	return &ConnectionError{
		Message: message,
		Err:     err,
	}
}

// AuthenticationError represents an authentication failure reported by the
// device at the API level. Code is the numeric device error code, or 0 when
// the device did not report one.
type AuthenticationError struct {
	Message string
	Code    int
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string, code int) *AuthenticationError {
	return &AuthenticationError{
		Message: message,
		Code:    code,
	}
}

// InvalidCredentialsError is returned when the device answers a login
// attempt with HTTP 401. It always carries API code 121 and unwraps to an
// AuthenticationError so errors.As matches it as both kinds.
type InvalidCredentialsError struct {
	AuthenticationError
}

// Unwrap lets errors.As treat an InvalidCredentialsError as an
// AuthenticationError
func (e *InvalidCredentialsError) Unwrap() error {
	return &e.AuthenticationError
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError
func NewInvalidCredentialsError() *InvalidCredentialsError {
	return &InvalidCredentialsError{
		AuthenticationError: AuthenticationError{
			Message: "Invalid username or password",
			Code:    CodeLoginFailed,
		},
	}
}

// APIError represents any other error reported by the device API, surfaced
// by action calls that fail for reasons unrelated to authentication.
type APIError struct {
	Message string
	Code    int
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}
