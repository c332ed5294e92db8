// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	validatorlib "github.com/go-playground/validator/v10"

	"usermap/internal/errors"
)

// Validator wraps the go-playground validator for echo.
type Validator struct {
	validate *validatorlib.Validate
}

// New creates the echo validator.
func New() *Validator {
	return &Validator{validate: validatorlib.New()}
}

// Validate checks a bound request struct against its validate tags.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.Wrap(err, "request validation failed")
	}

	return nil
}
