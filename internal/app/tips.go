package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"djboard/internal/adapters/store"
	"djboard/internal/domain/model"
	"djboard/internal/domain/validate"
	"djboard/pkg/logger"
)

// RecordTipInput carries a fan's tip submission. The DJ is named by display
// name, exactly as typed.
type RecordTipInput struct {
	FanID  string
	DJName string
	Amount uint64
}

// RecordTip resolves the named DJ and stores the tip as pending. Recording
// never touches the leaderboard; only settlement does.
func (s *Service) RecordTip(ctx context.Context, in RecordTipInput) (model.Tip, error) {
	if in.Amount == 0 {
		return model.Tip{}, fmt.Errorf("%w: amount must be positive", validate.ErrInvalidPayload)
	}
	if _, err := s.users.Get(ctx, in.FanID); err != nil {
		return model.Tip{}, fmt.Errorf("%w: fan %s", ErrUserNotFound, in.FanID)
	}

	dj, err := s.resolver.DJByName(ctx, in.DJName)
	if err != nil {
		return model.Tip{}, err
	}

	t := model.Tip{
		ID:        uuid.NewString(),
		FanID:     in.FanID,
		DJName:    in.DJName,
		DJID:      dj.ID,
		Amount:    in.Amount,
		Status:    model.TipPending,
		CreatedAt: s.now(),
	}
	s.tips.Put(ctx, t.ID, t)

	s.logger.Debug(ctx, "tip recorded",
		logger.String("id", t.ID),
		logger.String("dj", dj.ID),
		logger.Uint64("amount", t.Amount),
	)
	return t, nil
}

// SettleTip completes a pending tip and applies its amount to the
// leaderboard. The pending-to-completed transition runs atomically in the
// tip table and has exactly one winner, so the board sees each tip at most
// once. A tip that already left pending returns ErrTipSettled.
func (s *Service) SettleTip(ctx context.Context, id string) (model.Tip, error) {
	settledAt := s.now()
	t, err := s.tips.Update(ctx, id, func(cur model.Tip) (model.Tip, error) {
		if cur.Status != model.TipPending {
			return model.Tip{}, fmt.Errorf("%w: tip %s is %s", ErrTipSettled, cur.ID, cur.Status)
		}
		cur.Status = model.TipCompleted
		cur.SettledAt = &settledAt
		return cur, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Tip{}, fmt.Errorf("%w: %s", ErrTipNotFound, id)
		}
		return model.Tip{}, err
	}

	// This call won the transition, so the apply below runs once per tip.
	// The display name comes from the live profile when it still resolves,
	// keeping board names canonical across renames.
	name := t.DJName
	if dj, err := s.resolver.DJByID(ctx, t.DJID); err == nil {
		name = dj.Name
	}
	s.board.ApplyTip(ctx, t.DJID, name, t.Amount)

	s.logger.Debug(ctx, "tip settled",
		logger.String("id", t.ID),
		logger.String("dj", t.DJID),
		logger.Uint64("amount", t.Amount),
	)
	return t, nil
}

// DeclineTip moves a pending tip to declined. Declined tips never reach the
// leaderboard.
func (s *Service) DeclineTip(ctx context.Context, id string) (model.Tip, error) {
	declinedAt := s.now()
	t, err := s.tips.Update(ctx, id, func(cur model.Tip) (model.Tip, error) {
		if cur.Status != model.TipPending {
			return model.Tip{}, fmt.Errorf("%w: tip %s is %s", ErrTipSettled, cur.ID, cur.Status)
		}
		cur.Status = model.TipDeclined
		cur.SettledAt = &declinedAt
		return cur, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Tip{}, fmt.Errorf("%w: %s", ErrTipNotFound, id)
		}
		return model.Tip{}, err
	}

	s.logger.Debug(ctx, "tip declined", logger.String("id", t.ID))
	return t, nil
}

// GetTip returns the tip stored under id.
func (s *Service) GetTip(ctx context.Context, id string) (model.Tip, error) {
	t, err := s.tips.Get(ctx, id)
	if err != nil {
		return model.Tip{}, fmt.Errorf("%w: %s", ErrTipNotFound, id)
	}
	return t, nil
}

// ListTips returns every tip in ascending id order.
func (s *Service) ListTips(ctx context.Context) []model.Tip {
	return s.tips.List(ctx)
}

// ListTipsByDJ returns the tips resolved to the given DJ profile id.
func (s *Service) ListTipsByDJ(ctx context.Context, djID string) []model.Tip {
	all := s.tips.List(ctx)
	out := make([]model.Tip, 0, len(all))
	for _, t := range all {
		if t.DJID == djID {
			out = append(out, t)
		}
	}
	return out
}
