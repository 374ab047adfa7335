package board

import "errors"

// Sentinel kinds for board errors.
var (
	ErrEntryNotFound = errors.New("dj entry not found")
	ErrNoEntries     = errors.New("leaderboard is empty")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
)
