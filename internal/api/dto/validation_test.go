package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName: "Alice",
		LastName:  "Martin",
		Email:     "alice@example.com",
		Password:  "Tr0ub4dor&3-Zephyr",
		UserType:  "CLIENT",
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	require.NoError(t, validRegisterRequest().Validate())

	req := validRegisterRequest()
	req.UserType = "livreur"
	assert.NoError(t, req.Validate())

	req = validRegisterRequest()
	req.Phone = "06 12 34 56 78"
	assert.NoError(t, req.Validate())
}

func TestRegisterRequestRejectsBadFields(t *testing.T) {
	req := RegisterRequest{
		FirstName: "A",
		LastName:  "",
		Email:     "not-an-email",
		Password:  "",
		UserType:  "ROBOT",
		Phone:     "12",
	}

	err := req.Validate()
	require.Error(t, err)

	details := ValidationDetails(err)
	for _, field := range []string{"prenom", "nom", "email", "motDePasse", "userType", "telephone"} {
		assert.Contains(t, details, field)
	}
}

func TestRegisterRequestNameLengthCountsRunes(t *testing.T) {
	req := validRegisterRequest()
	req.FirstName = "Éa"
	assert.NoError(t, req.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, LoginRequest{Email: "bob@example.com", Password: "x"}.Validate())

	details := ValidationDetails(LoginRequest{Email: "bob"}.Validate())
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "motDePasse")
}

func TestNormalizePhone(t *testing.T) {
	phone, err := NormalizePhone("06 12 34 56 78")
	require.NoError(t, err)
	assert.Equal(t, "+33612345678", phone)

	phone, err = NormalizePhone("  ")
	require.NoError(t, err)
	assert.Empty(t, phone)

	_, err = NormalizePhone("123")
	assert.Error(t, err)
}

func TestValidationDetailsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
