// File: internal/api/validator.go
package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"recipe-app/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator 以 json 標籤作為錯誤欄位名稱
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate 回傳第一個失敗欄位的 apperr.Validation
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}
	fe := verrs[0]
	return apperr.Validation(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
