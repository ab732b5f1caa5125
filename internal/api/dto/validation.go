package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/samueladole/crovio/pkg/util/errorutil"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// ValidationError converts ozzo validation errors to a 422 DomainError with
// per-field details.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		return errorutil.NewValidationError("invalid request", details)
	}
	return errorutil.NewValidationError(err.Error(), nil)
}

// Pagination is shared by list endpoints.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Validate checks paging bounds.
func (p Pagination) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Min(0), validation.Max(100)),
		validation.Field(&p.Offset, validation.Min(0)),
	)
}
