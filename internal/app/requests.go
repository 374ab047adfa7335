package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"djboard/internal/adapters/store"
	"djboard/internal/domain/model"
	"djboard/internal/domain/validate"
	"djboard/pkg/logger"
)

// CreateSongRequestInput carries a fan's song request for an event.
type CreateSongRequestInput struct {
	FanID   string
	EventID string
	Title   string
	Artist  string
	Note    string
}

// CreateSongRequest stores a request in the pending state. The fan and the
// event must both exist.
func (s *Service) CreateSongRequest(ctx context.Context, in CreateSongRequestInput) (model.SongRequest, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.SongRequest{}, fmt.Errorf("%w: title is required", validate.ErrInvalidPayload)
	}
	if _, err := s.users.Get(ctx, in.FanID); err != nil {
		return model.SongRequest{}, fmt.Errorf("%w: fan %s", ErrUserNotFound, in.FanID)
	}
	if _, err := s.events.Get(ctx, in.EventID); err != nil {
		return model.SongRequest{}, fmt.Errorf("%w: %s", ErrEventNotFound, in.EventID)
	}

	now := s.now()
	r := model.SongRequest{
		ID:        uuid.NewString(),
		FanID:     in.FanID,
		EventID:   in.EventID,
		Title:     strings.TrimSpace(in.Title),
		Artist:    strings.TrimSpace(in.Artist),
		Note:      in.Note,
		Status:    model.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.requests.Put(ctx, r.ID, r)

	s.logger.Debug(ctx, "song request created",
		logger.String("id", r.ID),
		logger.String("event", r.EventID),
		logger.String("title", r.Title),
	)
	return r, nil
}

// AdvanceSongRequest moves a request along its lifecycle. Legal moves are
// pending to queued or declined, and queued to played or declined; anything
// else is rejected without touching the row.
func (s *Service) AdvanceSongRequest(ctx context.Context, id string, next model.RequestStatus) (model.SongRequest, error) {
	if !next.Valid() {
		return model.SongRequest{}, fmt.Errorf("%w: unknown status %q", validate.ErrInvalidPayload, next)
	}

	r, err := s.requests.Update(ctx, id, func(cur model.SongRequest) (model.SongRequest, error) {
		if !cur.Status.CanTransition(next) {
			return model.SongRequest{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, cur.Status, next)
		}
		cur.Status = next
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.SongRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
		}
		return model.SongRequest{}, err
	}

	s.logger.Debug(ctx, "song request advanced",
		logger.String("id", r.ID),
		logger.String("status", string(r.Status)),
	)
	return r, nil
}

// GetSongRequest returns the request stored under id.
func (s *Service) GetSongRequest(ctx context.Context, id string) (model.SongRequest, error) {
	r, err := s.requests.Get(ctx, id)
	if err != nil {
		return model.SongRequest{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	return r, nil
}

// ListSongRequests returns every request in ascending id order.
func (s *Service) ListSongRequests(ctx context.Context) []model.SongRequest {
	return s.requests.List(ctx)
}

// ListSongRequestsByEvent returns the requests made for one event. A deleted
// or unknown event simply yields an empty list.
func (s *Service) ListSongRequestsByEvent(ctx context.Context, eventID string) []model.SongRequest {
	all := s.requests.List(ctx)
	out := make([]model.SongRequest, 0, len(all))
	for _, r := range all {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}
