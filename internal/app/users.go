package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"djboard/internal/domain/model"
	"djboard/internal/domain/validate"
	"djboard/pkg/logger"
)

// CreateUserInput carries the fields a new profile is built from.
type CreateUserInput struct {
	Name   string
	Email  string
	Bio    string
	Genres []string
	Roles  []model.Role
}

// CreateUser stores a new profile. An empty role list defaults to fan.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.User{}, fmt.Errorf("%w: name is required", validate.ErrInvalidPayload)
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []model.Role{model.RoleFan}
	}
	for _, r := range roles {
		if !r.Valid() {
			return model.User{}, fmt.Errorf("%w: unknown role %q", validate.ErrInvalidPayload, r)
		}
	}

	now := s.now()
	u := model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     in.Email,
		Bio:       in.Bio,
		Genres:    in.Genres,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users.Put(ctx, u.ID, u)

	s.logger.Debug(ctx, "user created",
		logger.String("id", u.ID),
		logger.String("name", u.Name),
	)
	return u, nil
}

// GetUser returns the profile stored under id.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, nil
}

// ListUsers returns every profile in ascending id order.
func (s *Service) ListUsers(ctx context.Context) []model.User {
	return s.users.List(ctx)
}

// UpdateUserInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Bio    *string
	Genres *[]string
}

// UpdateUser applies a partial update. When the display name changes and the
// profile is a DJ, the leaderboard's denormalized name refreshes in the same
// call.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (model.User, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.User{}, fmt.Errorf("%w: name must not be blank", validate.ErrInvalidPayload)
	}

	renamed := false
	u, err := s.users.Update(ctx, id, func(cur model.User) (model.User, error) {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name != cur.Name {
				cur.Name = name
				renamed = true
			}
		}
		if in.Email != nil {
			cur.Email = *in.Email
		}
		if in.Bio != nil {
			cur.Bio = *in.Bio
		}
		if in.Genres != nil {
			cur.Genres = *in.Genres
		}
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	if renamed && u.IsDJ() {
		s.board.RefreshName(ctx, u.ID, u.Name)
		s.logger.Debug(ctx, "dj display name refreshed",
			logger.String("id", u.ID),
			logger.String("name", u.Name),
		)
	}
	return u, nil
}

// DeleteUser removes the profile only. Leaderboard entries are never
// deleted; queries that resolve profiles skip entries whose DJ id no longer
// resolves.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	s.logger.Debug(ctx, "user deleted", logger.String("id", id))
	return nil
}
