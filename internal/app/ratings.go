package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"djboard/internal/domain/model"
	"djboard/internal/domain/validate"
	"djboard/pkg/logger"
)

// RecordRatingInput carries a fan's star rating for a named DJ.
type RecordRatingInput struct {
	FanID  string
	DJName string
	Stars  uint8
	Review string
}

// RecordRating resolves the named DJ, stores the rating, and folds it into
// the leaderboard immediately. Ratings have no settlement step; the single
// store-then-apply here is the at-most-once guarantee.
func (s *Service) RecordRating(ctx context.Context, in RecordRatingInput) (model.Rating, error) {
	if in.Stars < 1 || in.Stars > 5 {
		return model.Rating{}, fmt.Errorf("%w: stars must be 1..5, got %d", validate.ErrInvalidPayload, in.Stars)
	}
	if _, err := s.users.Get(ctx, in.FanID); err != nil {
		return model.Rating{}, fmt.Errorf("%w: fan %s", ErrUserNotFound, in.FanID)
	}

	dj, err := s.resolver.DJByName(ctx, in.DJName)
	if err != nil {
		return model.Rating{}, err
	}

	r := model.Rating{
		ID:        uuid.NewString(),
		FanID:     in.FanID,
		DJName:    in.DJName,
		DJID:      dj.ID,
		Stars:     in.Stars,
		Review:    in.Review,
		CreatedAt: s.now(),
	}
	s.ratings.Put(ctx, r.ID, r)
	s.board.ApplyRating(ctx, dj.ID, dj.Name, r.Stars)

	s.logger.Debug(ctx, "rating recorded",
		logger.String("id", r.ID),
		logger.String("dj", dj.ID),
		logger.Int("stars", int(r.Stars)),
	)
	return r, nil
}

// GetRating returns the rating stored under id.
func (s *Service) GetRating(ctx context.Context, id string) (model.Rating, error) {
	r, err := s.ratings.Get(ctx, id)
	if err != nil {
		return model.Rating{}, fmt.Errorf("%w: %s", ErrRatingNotFound, id)
	}
	return r, nil
}

// ListRatings returns every rating in ascending id order.
func (s *Service) ListRatings(ctx context.Context) []model.Rating {
	return s.ratings.List(ctx)
}

// ListRatingsByDJ returns the ratings resolved to the given DJ profile id.
func (s *Service) ListRatingsByDJ(ctx context.Context, djID string) []model.Rating {
	all := s.ratings.List(ctx)
	out := make([]model.Rating, 0, len(all))
	for _, r := range all {
		if r.DJID == djID {
			out = append(out, r)
		}
	}
	return out
}
