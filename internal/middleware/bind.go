package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"readyToHelp/pkg/e"
	"readyToHelp/pkg/validator"
)

const maxBodyBytes = 1 << 20

// BindJSON decodes exactly one JSON object from the request body into target
// and validates it. Every failure is an e.ErrValidation.
func BindJSON(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", e.ErrValidation, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", e.ErrValidation)
	}

	return validator.ValidateStruct(target)
}
