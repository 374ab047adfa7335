package board

import "time"

// Option applies a configuration option to the Board.
type Option func(*Board)

// WithTruncatedAverages switches averages to the historical integer
// formula. Off by default; real-division averages are the shipped behavior.
func WithTruncatedAverages() Option {
	return func(b *Board) {
		b.truncate = true
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}
