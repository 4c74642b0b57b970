package middleware

import "github.com/Alexander-D-Karpov/concord-client/internal/common/errors"

type Validator interface {
	Validate() error
}

// Validate checks v when it implements Validator.
func Validate(v any) error {
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.BadRequest("validation failed", err)
		}
	}
	return nil
}
