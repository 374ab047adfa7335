package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"djboard/internal/adapters/store"
	"djboard/internal/domain/model"
	"djboard/internal/domain/validate"
	"djboard/pkg/logger"
)

// CreateEventInput carries the fields a new event is built from.
type CreateEventInput struct {
	HostID      string
	Name        string
	Venue       string
	Description string
	StartsAt    time.Time
	EndsAt      *time.Time
}

// CreateEvent stores a new event. The host must resolve to a DJ profile and
// the time window must be coherent.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (model.Event, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Event{}, fmt.Errorf("%w: name is required", validate.ErrInvalidPayload)
	}
	if in.StartsAt.IsZero() {
		return model.Event{}, fmt.Errorf("%w: starts_at is required", validate.ErrInvalidPayload)
	}
	if in.EndsAt != nil && !in.EndsAt.After(in.StartsAt) {
		return model.Event{}, fmt.Errorf("%w: ends_at must be after starts_at", validate.ErrInvalidPayload)
	}
	host, err := s.resolver.DJByID(ctx, in.HostID)
	if err != nil {
		return model.Event{}, err
	}

	now := s.now()
	e := model.Event{
		ID:          uuid.NewString(),
		HostID:      host.ID,
		Name:        strings.TrimSpace(in.Name),
		Venue:       in.Venue,
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.events.Put(ctx, e.ID, e)

	s.logger.Debug(ctx, "event created",
		logger.String("id", e.ID),
		logger.String("host", e.HostID),
		logger.String("name", e.Name),
	)
	return e, nil
}

// GetEvent returns the event stored under id.
func (s *Service) GetEvent(ctx context.Context, id string) (model.Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return e, nil
}

// ListEvents returns every event in ascending id order.
func (s *Service) ListEvents(ctx context.Context) []model.Event {
	return s.events.List(ctx)
}

// UpdateEventInput carries a partial event update. Nil fields are left
// untouched.
type UpdateEventInput struct {
	Name        *string
	Venue       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// UpdateEvent applies a partial update, re-checking the time window with the
// merged values.
func (s *Service) UpdateEvent(ctx context.Context, id string, in UpdateEventInput) (model.Event, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Event{}, fmt.Errorf("%w: name must not be blank", validate.ErrInvalidPayload)
	}

	e, err := s.events.Update(ctx, id, func(cur model.Event) (model.Event, error) {
		if in.Name != nil {
			cur.Name = strings.TrimSpace(*in.Name)
		}
		if in.Venue != nil {
			cur.Venue = *in.Venue
		}
		if in.Description != nil {
			cur.Description = *in.Description
		}
		if in.StartsAt != nil {
			cur.StartsAt = *in.StartsAt
		}
		if in.EndsAt != nil {
			cur.EndsAt = in.EndsAt
		}
		if cur.EndsAt != nil && !cur.EndsAt.After(cur.StartsAt) {
			return model.Event{}, fmt.Errorf("%w: ends_at must be after starts_at", validate.ErrInvalidPayload)
		}
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		return model.Event{}, err
	}
	return e, nil
}

// DeleteEvent removes the event. Song requests made for it are left in
// place; listing them by the deleted event id returns an empty list.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	s.logger.Debug(ctx, "event deleted", logger.String("id", id))
	return nil
}
