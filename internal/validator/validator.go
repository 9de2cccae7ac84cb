// Package validator wraps go-playground/validator/v10 behind a single
// entry point so every config/request struct validates the same way.
package validator

import (
	"sync"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func initValidator() {
	once.Do(func() {
		validate = validator.New()
	})
}

// GetValidator returns the process-wide validator instance.
func GetValidator() *validator.Validate {
	initValidator()
	return validate
}

// ValidateStruct runs struct-tag validation on req and, on failure,
// folds every field error into one ierr validation error.
func ValidateStruct(req interface{}) error {
	initValidator()

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fe := range validateErrs {
				details[fe.Namespace()] = fe.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("configuration validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
