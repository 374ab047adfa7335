// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jinzhu/copier"

	service "djboard/internal/app"
	"djboard/internal/domain/model"
)

// UserDependencies defines the interface for profile operations.
type UserDependencies interface {
	CreateUser(ctx context.Context, in service.CreateUserInput) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) []model.User
	UpdateUser(ctx context.Context, id string, in service.UpdateUserInput) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UsersHandler handles profile requests.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// createUserRequest mirrors the OpenAPI schema for POST /users.
type createUserRequest struct {
	Name   string       `json:"name"   validate:"required"`
	Email  string       `json:"email"  validate:"omitempty,email"`
	Bio    string       `json:"bio"`
	Genres []string     `json:"genres"`
	Roles  []model.Role `json:"roles"  validate:"omitempty,dive,oneof=fan dj"`
}

type updateUserRequest struct {
	Name   *string   `json:"name"   validate:"omitempty,min=1"`
	Email  *string   `json:"email"  validate:"omitempty,email"`
	Bio    *string   `json:"bio"`
	Genres *[]string `json:"genres"`
}

type userResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	Genres    []string     `json:"genres,omitempty"`
	Roles     []model.Role `json:"roles"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// HandleUsers handles POST /users and GET /users requests.
func (h *UsersHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		listJSON[userResponse](w, h.deps.ListUsers(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	var in service.CreateUserInput
	_ = copier.Copy(&in, &req)

	u, err := h.deps.CreateUser(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	respondJSON[userResponse](w, http.StatusCreated, u)
}

// HandleUserByID handles GET, PATCH, and DELETE /users/{id} requests.
func (h *UsersHandler) HandleUserByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/users/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := h.deps.GetUser(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[userResponse](w, http.StatusOK, u)
	case http.MethodPatch:
		var req updateUserRequest
		if err := decodeBody(r, &req); err != nil {
			writeFailure(w, r, err)
			return
		}
		var in service.UpdateUserInput
		_ = copier.Copy(&in, &req)

		u, err := h.deps.UpdateUser(r.Context(), id, in)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[userResponse](w, http.StatusOK, u)
	case http.MethodDelete:
		if err := h.deps.DeleteUser(r.Context(), id); err != nil {
			writeFailure(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
