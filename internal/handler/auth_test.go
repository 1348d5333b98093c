package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistration_OK(t *testing.T) {
	errs := validateRegistration(registerReq{
		Username:        "aylin",
		FirstName:       "Aylin",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	assert.Empty(t, errs)
}

func TestValidateRegistration_MissingFields(t *testing.T) {
	errs := validateRegistration(registerReq{})
	assert.Equal(t, "Please enter a username.", errs["username"])
	assert.Equal(t, "Please enter your first name.", errs["first_name"])
	assert.Equal(t, "Please enter a password.", errs["password"])
	assert.Equal(t, "Please confirm your password.", errs["password_confirm"])
}

func TestValidateRegistration_PasswordMismatch(t *testing.T) {
	errs := validateRegistration(registerReq{
		Username:        "aylin",
		FirstName:       "Aylin",
		Password:        "pass1234",
		PasswordConfirm: "pass1235",
	})
	assert.Equal(t, map[string]string{"password_confirm": "Passwords do not match."}, errs)
}

func TestValidateRegistration_BlankUsernameIsMissing(t *testing.T) {
	errs := validateRegistration(registerReq{
		Username:        "   ",
		FirstName:       "Aylin",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	assert.Equal(t, "Please enter a username.", errs["username"])
}
