package validate

import "errors"

// ErrInvalidPayload marks any validation failure; callers map it to a 400.
var ErrInvalidPayload = errors.New("invalid payload")
