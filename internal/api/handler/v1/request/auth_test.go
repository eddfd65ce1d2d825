package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Fullname: "Alice Example",
			Email:    "alice@example.com",
			Password: "Password1",
			Country:  "Kenya",
		}
	}

	ok := valid()
	require.NoError(t, ok.Validate())

	tests := []struct {
		name     string
		password string
	}{
		{name: "too short", password: "Pass1"},
		{name: "no digit", password: "Passwords"},
		{name: "no letter", password: "12345678"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			req.Password = tc.password

			assert.ErrorIs(t, req.Validate(), errInvalidPassword)
		})
	}

	t.Run("missing email", func(t *testing.T) {
		req := valid()
		req.Email = ""

		assert.Error(t, req.Validate())
	})
}

func TestChangePasswordRequest_Validate(t *testing.T) {
	req := ChangePasswordRequest{OldPassword: "Password1", NewPassword: "NewPassword1"}
	require.NoError(t, req.Validate())

	req.NewPassword = "weak"
	assert.ErrorIs(t, req.Validate(), errInvalidPassword)
}

func TestResetPasswordRequest_Validate(t *testing.T) {
	req := ResetPasswordRequest{Token: "abc", NewPassword: "NewPassword1"}
	require.NoError(t, req.Validate())

	req.NewPassword = "lettersonly"
	assert.ErrorIs(t, req.Validate(), errInvalidPassword)
}
