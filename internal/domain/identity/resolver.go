// Package identity resolves fan-supplied DJ names to profiles.
package identity

import (
	"context"
	"strings"

	"djboard/internal/domain/model"
	"djboard/pkg/metrics"
)

// ProfileSource is the slice of the user table the resolver needs.
type ProfileSource interface {
	// List returns profiles in ascending id order.
	List(ctx context.Context) []model.User
	// Get returns the profile stored under id.
	Get(ctx context.Context, id string) (model.User, error)
}

// Resolver turns names and ids into DJ profiles.
type Resolver struct {
	profiles ProfileSource
}

// New constructs a resolver over the given profile source.
func New(profiles ProfileSource) *Resolver {
	return &Resolver{profiles: profiles}
}

// DJByName finds the DJ a fan named. Matching is case-insensitive, requires
// the dj role, and the first match in id order wins. Display names are not
// unique, so homonymous DJs shadow each other; collisions are counted but
// the shadowing itself is accepted behavior.
func (r *Resolver) DJByName(ctx context.Context, name string) (model.User, error) {
	metrics.RecordNameLookup()

	var found model.User
	matched := false
	for _, u := range r.profiles.List(ctx) {
		if !u.IsDJ() || !strings.EqualFold(u.Name, name) {
			continue
		}
		if matched {
			metrics.RecordNameCollision()
			break
		}
		found = u
		matched = true
	}
	if !matched {
		metrics.RecordErrorByComponent("identity", "unknown_dj")
		return model.User{}, ErrUnknownDJ
	}
	return found, nil
}

// DJByID returns the DJ profile stored under id. Missing profiles and
// profiles without the dj role both resolve to ErrUnknownDJ.
func (r *Resolver) DJByID(ctx context.Context, id string) (model.User, error) {
	u, err := r.profiles.Get(ctx, id)
	if err != nil || !u.IsDJ() {
		return model.User{}, ErrUnknownDJ
	}
	return u, nil
}
