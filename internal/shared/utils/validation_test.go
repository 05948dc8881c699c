package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/deskhub/internal/shared/errors"
)

type registerInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		err := ValidateStruct(registerInput{
			Username: "alice.w",
			Email:    "alice@example.com",
			Password: "correct horse",
			Timezone: "Europe/Berlin",
		})
		assert.NoError(t, err)
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := ValidateStruct(registerInput{Username: "a", Email: "nope", Password: "short", Timezone: "Mars/Base"})
		require.Error(t, err)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Details, "username must be 3-32")
		assert.Contains(t, appErr.Details, "email must be a valid email address")
		assert.Contains(t, appErr.Details, "password must be at least 8 characters long")
		assert.Contains(t, appErr.Details, "timezone must be an IANA timezone name")
	})
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("bob"))
	assert.True(t, IsValidUsername("bob_the-builder.2"))
	assert.False(t, IsValidUsername("_bob"))
	assert.False(t, IsValidUsername("bo"))
	assert.False(t, IsValidUsername("bob smith"))
}

func TestMasking(t *testing.T) {
	assert.Equal(t, "u***@example.com", MaskEmail("user@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "********", MaskSecret("short"))
	assert.Equal(t, "abcd********", MaskSecret("abcdefghijkl"))
}
