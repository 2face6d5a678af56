// Package validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound requests.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator wraps a validator instance for struct tag validation.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates the validator used by the HTTP server.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
