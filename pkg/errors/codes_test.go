package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedCodes is the full documented code set: general configuration
// errors 100-117, auth errors 120-123 and file upload errors 150-151.
func expectedCodes() []int {
	var codes []int
	for code := 100; code <= 117; code++ {
		codes = append(codes, code)
	}
	for code := 120; code <= 123; code++ {
		codes = append(codes, code)
	}
	codes = append(codes, 150, 151)
	return codes
}

func TestDescribe_EveryDeclaredCodeHasDescription(t *testing.T) {
	for _, code := range expectedCodes() {
		assert.NotEmpty(t, Describe(code), "code %d has no description", code)
	}
}

func TestDescribe_TableIsClosed(t *testing.T) {
	require.ElementsMatch(t, expectedCodes(), Codes())
}

func TestDescribe_UndeclaredCode(t *testing.T) {
	assert.Empty(t, Describe(99))
	assert.Empty(t, Describe(118))
	assert.Empty(t, Describe(152))
}

func TestDescribe_KnownValues(t *testing.T) {
	assert.Equal(t, "Login failed for any reason", Describe(CodeLoginFailed))
	assert.Equal(t, "Unauthorized access", Describe(CodeUnauthorizedAccess))
	assert.Equal(t, "Response not implemented", Describe(CodeResponseNotImplemented))
}
