package audit

import "djboard/pkg/logger"

// Option applies a configuration option to the Auditor.
type Option func(*Auditor)

// WithSchedule sets the cron expression, six fields with a seconds column.
func WithSchedule(spec string) Option {
	return func(a *Auditor) {
		if spec != "" {
			a.schedule = spec
		}
	}
}

// WithLogger sets a custom logger for the auditor.
func WithLogger(l logger.Logger) Option {
	return func(a *Auditor) {
		if l != nil {
			a.logger = l
		}
	}
}
