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

// CreatePlaylistInput carries the fields a new playlist is built from.
type CreatePlaylistInput struct {
	OwnerID string
	Name    string
	Tracks  []model.Track
}

// CreatePlaylist stores a new playlist. The owner must resolve to a DJ
// profile.
func (s *Service) CreatePlaylist(ctx context.Context, in CreatePlaylistInput) (model.Playlist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Playlist{}, fmt.Errorf("%w: name is required", validate.ErrInvalidPayload)
	}
	for _, t := range in.Tracks {
		if strings.TrimSpace(t.Title) == "" {
			return model.Playlist{}, fmt.Errorf("%w: track title is required", validate.ErrInvalidPayload)
		}
	}
	owner, err := s.resolver.DJByID(ctx, in.OwnerID)
	if err != nil {
		return model.Playlist{}, err
	}

	now := s.now()
	p := model.Playlist{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      strings.TrimSpace(in.Name),
		Tracks:    in.Tracks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.playlists.Put(ctx, p.ID, p)

	s.logger.Debug(ctx, "playlist created",
		logger.String("id", p.ID),
		logger.String("owner", p.OwnerID),
		logger.Int("tracks", len(p.Tracks)),
	)
	return p, nil
}

// GetPlaylist returns the playlist stored under id.
func (s *Service) GetPlaylist(ctx context.Context, id string) (model.Playlist, error) {
	p, err := s.playlists.Get(ctx, id)
	if err != nil {
		return model.Playlist{}, fmt.Errorf("%w: %s", ErrPlaylistNotFound, id)
	}
	return p, nil
}

// ListPlaylists returns every playlist in ascending id order.
func (s *Service) ListPlaylists(ctx context.Context) []model.Playlist {
	return s.playlists.List(ctx)
}

// ListPlaylistsByOwner returns the playlists owned by one DJ profile id.
func (s *Service) ListPlaylistsByOwner(ctx context.Context, ownerID string) []model.Playlist {
	all := s.playlists.List(ctx)
	out := make([]model.Playlist, 0, len(all))
	for _, p := range all {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out
}

// AppendTrack adds one track to the end of a playlist.
func (s *Service) AppendTrack(ctx context.Context, id string, track model.Track) (model.Playlist, error) {
	if strings.TrimSpace(track.Title) == "" {
		return model.Playlist{}, fmt.Errorf("%w: track title is required", validate.ErrInvalidPayload)
	}

	p, err := s.playlists.Update(ctx, id, func(cur model.Playlist) (model.Playlist, error) {
		cur.Tracks = append(cur.Tracks, track)
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Playlist{}, fmt.Errorf("%w: %s", ErrPlaylistNotFound, id)
		}
		return model.Playlist{}, err
	}
	return p, nil
}

// DeletePlaylist removes the playlist.
func (s *Service) DeletePlaylist(ctx context.Context, id string) error {
	if err := s.playlists.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrPlaylistNotFound, id)
	}
	s.logger.Debug(ctx, "playlist deleted", logger.String("id", id))
	return nil
}
