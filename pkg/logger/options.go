// Package logger provides structured logging for the djboard service.
package logger

import (
	"io"
	"log/slog"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type settings struct {
	out    io.Writer
	format string
	level  slog.Level
}

// Option applies a configuration option to Init.
type Option func(*settings)

// WithOutput directs log output to w.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithFormat selects the handler format (text or json).
func WithFormat(format string) Option {
	return func(s *settings) {
		if format != "" {
			s.format = format
		}
	}
}

// WithLevel sets the initial level.
func WithLevel(level slog.Level) Option {
	return func(s *settings) {
		s.level = level
	}
}
