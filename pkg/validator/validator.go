package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"readyToHelp/pkg/e"
)

var validate *validator.Validate

var coordinateTags = map[string]bool{"lat": true, "lng": true}

func init() {
	validate = validator.New()
	RegisterCustomValidations(validate)
}

// ValidateStruct runs the struct tags and folds every failing field into a
// single error. It wraps e.ErrOutOfRange when only coordinate range checks
// failed and e.ErrValidation otherwise.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", e.ErrValidation, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	kind := e.ErrOutOfRange
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		if !coordinateTags[fe.Tag()] {
			kind = e.ErrValidation
		}
	}
	return fmt.Errorf("%w: %s", kind, strings.Join(parts, "; "))
}
