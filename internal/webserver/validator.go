package webserver

import (
	"github.com/go-playground/validator/v10"
)

// payloadValidator binds go-playground/validator as echo's c.Validate.
type payloadValidator struct {
	validate *validator.Validate
}

func newPayloadValidator() *payloadValidator {
	return &payloadValidator{validate: validator.New()}
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
