// Package validate rejects malformed payloads before they reach the core.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() { //nolint:gochecknoinits // single shared validator instance
	v = validator.New(validator.WithRequiredStructEnabled())
}

// Struct checks the validate tags on s. Failures come back wrapped in
// ErrInvalidPayload with the first offending field named, which is all a
// client needs to fix the request.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		first := vErrs[0]
		if first.Param() != "" {
			return fmt.Errorf("%w: field %q failed rule %q (%s)",
				ErrInvalidPayload, first.Field(), first.Tag(), first.Param())
		}
		return fmt.Errorf("%w: field %q failed rule %q",
			ErrInvalidPayload, first.Field(), first.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}

// Var checks a single value against a rule expression, for query
// parameters that never pass through a struct.
func Var(value any, rule string) error {
	if err := v.Var(value, rule); err != nil {
		return fmt.Errorf("%w: value failed rule %q", ErrInvalidPayload, rule)
	}
	return nil
}
