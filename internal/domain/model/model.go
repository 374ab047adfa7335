// Package model contains domain models passed between layers.
package model

import "time"

// Role classifies what a profile is allowed to do on the platform.
type Role string

// Known roles.
const (
	RoleFan Role = "fan"
	RoleDJ  Role = "dj"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleFan || r == RoleDJ
}

// User is a platform profile. Display names are NOT unique; name-based
// lookups resolve to the first matching DJ profile in id order.
type User struct {
	ID        string
	Name      string // display name shown on leaderboards
	Email     string
	Bio       string
	Genres    []string // preferred genres, free-form
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDJ reports whether the profile carries the dj role.
func (u User) IsDJ() bool {
	for _, r := range u.Roles {
		if r == RoleDJ {
			return true
		}
	}
	return false
}

// TipStatus is the settlement state of a tip.
type TipStatus string

// Tip lifecycle states. Only completed tips count toward leaderboard totals.
const (
	TipPending   TipStatus = "pending"
	TipCompleted TipStatus = "completed"
	TipDeclined  TipStatus = "declined"
)

// Valid reports whether the status is a known value.
func (s TipStatus) Valid() bool {
	return s == TipPending || s == TipCompleted || s == TipDeclined
}

// Tip is money a fan sends a DJ. DJName is the string the fan submitted;
// DJID is the profile it resolved to at record time.
type Tip struct {
	ID        string
	FanID     string
	DJName    string
	DJID      string
	Amount    uint64 // smallest currency unit, always positive
	Status    TipStatus
	CreatedAt time.Time
	SettledAt *time.Time // set when the tip completes or is declined
}

// Rating is a 1..5 star review a fan leaves for a DJ. Ratings apply to the
// leaderboard immediately; there is no settlement step.
type Rating struct {
	ID        string
	FanID     string
	DJName    string
	DJID      string
	Stars     uint8
	Review    string
	CreatedAt time.Time
}

// RequestStatus is the queue state of a song request.
type RequestStatus string

// Song request lifecycle states.
const (
	RequestPending  RequestStatus = "pending"
	RequestQueued   RequestStatus = "queued"
	RequestPlayed   RequestStatus = "played"
	RequestDeclined RequestStatus = "declined"
)

// Valid reports whether the status is a known value.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestQueued, RequestPlayed, RequestDeclined:
		return true
	}
	return false
}

// CanTransition reports whether next is a legal move from s.
// pending -> queued -> played, with declined reachable until played.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	switch s {
	case RequestPending:
		return next == RequestQueued || next == RequestDeclined
	case RequestQueued:
		return next == RequestPlayed || next == RequestDeclined
	}
	return false
}

// SongRequest is a fan asking for a track at an event.
type SongRequest struct {
	ID        string
	FanID     string
	EventID   string
	Title     string
	Artist    string
	Note      string
	Status    RequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Event is a gig hosted by a DJ.
type Event struct {
	ID          string
	HostID      string // DJ profile id
	Name        string
	Venue       string
	Description string
	StartsAt    time.Time
	EndsAt      *time.Time // open-ended when nil
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Track is one song on a playlist.
type Track struct {
	Title     string
	Artist    string
	DurationS uint32 // seconds, zero when unknown
}

// Playlist is a DJ-owned ordered set of tracks.
type Playlist struct {
	ID        string
	OwnerID   string // DJ profile id
	Name      string
	Tracks    []Track
	CreatedAt time.Time
	UpdatedAt time.Time
}
