package audit

import "errors"

// Error constants.
var (
	ErrBadSchedule = errors.New("invalid audit schedule")
)
