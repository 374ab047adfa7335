package service

import (
	"context"
	"fmt"

	"djboard/internal/domain/board"
	"djboard/internal/domain/model"
	"djboard/internal/domain/validate"
)

// Leaderboard returns every board entry in rank order. An empty board is an
// error for this call, preserved behavior from the start of this system.
func (s *Service) Leaderboard(ctx context.Context) ([]board.Entry, error) {
	return s.board.All(ctx)
}

// TopDJs returns the first n entries in rank order. Zero or negative n uses
// the configured default; n beyond the configured maximum is rejected. An
// empty board is NOT an error here.
func (s *Service) TopDJs(ctx context.Context, n int) ([]board.Entry, error) {
	if n <= 0 {
		n = s.defaultTopN
	}
	if n > s.maxTopN {
		return nil, fmt.Errorf("%w: limit %d exceeds maximum %d", validate.ErrInvalidPayload, n, s.maxTopN)
	}
	return s.board.TopN(ctx, n)
}

// DJSearchResult pairs a live DJ profile with its board entry.
type DJSearchResult struct {
	DJ    model.User
	Entry board.Entry
}

// SearchDJsByRatingFloor returns DJs whose average rating is at or above
// floor (inclusive), in rank order. Entries whose profile no longer resolves
// are silently excluded; an empty result after that filter is ErrNoMatches.
func (s *Service) SearchDJsByRatingFloor(ctx context.Context, floor float64) ([]DJSearchResult, error) {
	if floor < 0 || floor > 5 {
		return nil, fmt.Errorf("%w: rating floor %v outside 0..5", validate.ErrInvalidPayload, floor)
	}

	entries := s.board.AtLeast(ctx, floor)
	out := make([]DJSearchResult, 0, len(entries))
	for _, e := range entries {
		dj, err := s.resolver.DJByID(ctx, e.DJID)
		if err != nil {
			continue
		}
		out = append(out, DJSearchResult{DJ: dj, Entry: e})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no dj rated %.1f or higher", ErrNoMatches, floor)
	}
	return out, nil
}

// DJStanding returns a DJ's board entry and 1-based rank.
func (s *Service) DJStanding(ctx context.Context, djID string) (board.Entry, int, error) {
	return s.board.Standing(ctx, djID)
}

// BoardSnapshot returns a point-in-time copy of every board entry keyed by
// DJ id. The audit job diffs this against the source tables.
func (s *Service) BoardSnapshot(ctx context.Context) map[string]board.Entry {
	return s.board.Snapshot(ctx)
}
