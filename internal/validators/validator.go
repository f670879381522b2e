// Package validators adapts go-playground/validator to echo.
package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,50}$`)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator with the "handle" tag registered for
// account handles.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return ValidHandle(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ValidHandle reports whether s can be used as an account handle.
func ValidHandle(s string) bool {
	return handlePattern.MatchString(s)
}
