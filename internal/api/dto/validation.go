package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

// DefaultPhoneRegion is used for numbers given without a country prefix.
const DefaultPhoneRegion = "FR"

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.RuneLength(2, 50)),
		validation.Field(&r.LastName, validation.Required, validation.RuneLength(2, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.UserType, validation.Required, validation.By(validateUserType)),
		validation.Field(&r.Phone, validation.By(validatePhone)),
	)
}

// Validate will validate the payload
func (r PasswordStrengthRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// ValidationDetails flattens field errors into a response-friendly map.
func ValidationDetails(err error) map[string]any {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make(map[string]any, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		details[field] = fieldErr.Error()
	}
	return details
}

// NormalizePhone returns the E.164 form of a phone number, or "" when empty.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func validateUserType(value interface{}) error {
	raw, _ := value.(string)
	if _, ok := domain.ParseUserType(raw); !ok {
		return errors.New("must be one of CLIENT, LIVREUR, PRESTATAIRE, COMMERCANT, ADMIN")
	}
	return nil
}

func validatePhone(value interface{}) error {
	raw, _ := value.(string)
	if _, err := NormalizePhone(raw); err != nil {
		return errors.New("must be a valid phone number")
	}
	return nil
}
