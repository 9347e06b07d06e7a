package client

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct runs the struct's validate tags and converts the
// first failure into a ValidationError, so malformed input never
// reaches the network.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: "failed " + fe.Tag() + " constraint"}
	}
	return &ValidationError{Message: err.Error()}
}
