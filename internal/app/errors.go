package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// Not-found kinds, one per entity table.
	ErrUserNotFound     = errors.New("user not found")
	ErrTipNotFound      = errors.New("tip not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrRequestNotFound  = errors.New("song request not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNoMatches is the empty search result after profile resolution.
	ErrNoMatches = errors.New("no matching djs")

	// ErrTipSettled marks a settle or decline on a tip that already left
	// the pending state. The first transition won; this one did not.
	ErrTipSettled = errors.New("tip already settled")

	// ErrBadTransition marks an illegal song-request status move.
	ErrBadTransition = errors.New("illegal status transition")
)
