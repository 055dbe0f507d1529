package api

import (
	"testing"

	"recipe-app/internal/apperr"

	"github.com/stretchr/testify/require"
)

func validationField(t *testing.T, err error) (string, string) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeValidation, ae.Code)
	return ae.Field, ae.Message
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&CreateUserRequest{Email: "a@b.com", Password: "12345"}))

	field, msg := validationField(t, v.Validate(&CreateUserRequest{Password: "12345"}))
	require.Equal(t, "email", field)
	require.Equal(t, "This field is required.", msg)

	field, _ = validationField(t, v.Validate(&CreateUserRequest{Email: "nope", Password: "12345"}))
	require.Equal(t, "email", field)

	field, msg = validationField(t, v.Validate(&CreateUserRequest{Email: "a@b.com", Password: "pw"}))
	require.Equal(t, "password", field)
	require.Equal(t, "Ensure this field has at least 5 characters.", msg)

	short := "pw"
	field, _ = validationField(t, v.Validate(&UpdateMeRequest{Password: &short}))
	require.Equal(t, "password", field)
	require.NoError(t, v.Validate(&UpdateMeRequest{}))

	neg := -1
	field, msg = validationField(t, v.Validate(&RecipeRequest{TimeMinutes: &neg}))
	require.Equal(t, "time_minutes", field)
	require.Equal(t, "Ensure this value is greater than or equal to 0.", msg)
}

func TestCustomValidatorNonStruct(t *testing.T) {
	err := NewValidator().Validate(42)
	require.True(t, apperr.Is(err, apperr.CodeInternal))
}
