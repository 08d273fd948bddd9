package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewConnectionError("Cannot connect to device at https://192.168.1.1/api", cause)

	assert.Equal(t, "Cannot connect to device at https://192.168.1.1/api", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestConnectionError_NoCause(t *testing.T) {
	err := NewConnectionError("Failed to get device info", nil)

	assert.Equal(t, "Failed to get device info", err.Error())
	assert.Nil(t, stderrors.Unwrap(err))
}

func TestAuthenticationError_MessageIncludesCode(t *testing.T) {
	err := NewAuthenticationError("Authentication failed: Invalid credentials", 121)
	assert.Equal(t, "Authentication failed: Invalid credentials (code 121)", err.Error())
}

func TestAuthenticationError_NoCode(t *testing.T) {
	err := NewAuthenticationError("Authentication failed", 0)
	assert.Equal(t, "Authentication failed", err.Error())
}

func TestInvalidCredentialsError_CarriesLoginFailedCode(t *testing.T) {
	err := NewInvalidCredentialsError()

	assert.Equal(t, CodeLoginFailed, err.Code)
	assert.Equal(t, "Invalid username or password", err.Message)
}

func TestInvalidCredentialsError_MatchesAsAuthenticationError(t *testing.T) {
	var err error = NewInvalidCredentialsError()

	var invalidErr *InvalidCredentialsError
	assert.True(t, stderrors.As(err, &invalidErr))

	var authErr *AuthenticationError
	assert.True(t, stderrors.As(err, &authErr))
	assert.Equal(t, CodeLoginFailed, authErr.Code)
}

func TestAuthenticationError_IsNotInvalidCredentials(t *testing.T) {
	var err error = NewAuthenticationError("Authentication failed", 120)

	var invalidErr *InvalidCredentialsError
	assert.False(t, stderrors.As(err, &invalidErr))
}

func TestAPIError(t *testing.T) {
	err := NewAPIError("UCI GET error", 104)

	assert.Equal(t, "UCI GET error", err.Error())
	assert.Equal(t, 104, err.Code)
}
