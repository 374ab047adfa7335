package dedupe

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithMaxSize sets the maximum number of keys to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(t *Tracker) {
		t.max = maxSize
	}
}
