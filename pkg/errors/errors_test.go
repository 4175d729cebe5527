package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("deactivate seller: %w", PersistenceFailure("Failed to deactivate the seller", cause))

	assert.True(t, HasCode(err, CodePersistenceFailure))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "deactivate seller: Failed to deactivate the seller: connection reset", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Empty(t, CodeOf(errors.New("boom")))
	assert.Empty(t, CodeOf(nil))
}

func TestAuthenticationFailureIsGeneric(t *testing.T) {
	err := AuthenticationFailure()

	assert.Equal(t, CodeAuthentication, err.Code)
	assert.Equal(t, "Invalid email or password.", err.Message)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForbiddenWrapsPermissionError(t *testing.T) {
	err := Forbidden("Sellers can only view their own delivery persons")

	assert.True(t, HasCode(err, CodeForbidden))
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
}
