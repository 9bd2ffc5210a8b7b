package utils

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator реализует echo.Validator поверх validator/v10 с правилами customvalidator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
