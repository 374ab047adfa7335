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

// EventDependencies defines the interface for event operations.
type EventDependencies interface {
	CreateEvent(ctx context.Context, in service.CreateEventInput) (model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	ListEvents(ctx context.Context) []model.Event
	UpdateEvent(ctx context.Context, id string, in service.UpdateEventInput) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// createEventRequest mirrors the OpenAPI schema for POST /events.
type createEventRequest struct {
	HostID      string     `json:"host_id"     validate:"required"`
	Name        string     `json:"name"        validate:"required"`
	Venue       string     `json:"venue"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	StartsAt    time.Time  `json:"starts_at"   validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

type updateEventRequest struct {
	Name        *string    `json:"name"        validate:"omitempty,min=1"`
	Venue       *string    `json:"venue"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

type eventResponse struct {
	ID          string     `json:"id"`
	HostID      string     `json:"host_id"`
	Name        string     `json:"name"`
	Venue       string     `json:"venue,omitempty"`
	Description string     `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HandleEvents handles POST /events and GET /events requests.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		listJSON[eventResponse](w, h.deps.ListEvents(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	var in service.CreateEventInput
	_ = copier.Copy(&in, &req)

	e, err := h.deps.CreateEvent(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	respondJSON[eventResponse](w, http.StatusCreated, e)
}

// HandleEventByID handles GET, PATCH, and DELETE /events/{id} requests.
func (h *EventsHandler) HandleEventByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/events/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := h.deps.GetEvent(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[eventResponse](w, http.StatusOK, e)
	case http.MethodPatch:
		var req updateEventRequest
		if err := decodeBody(r, &req); err != nil {
			writeFailure(w, r, err)
			return
		}
		var in service.UpdateEventInput
		_ = copier.Copy(&in, &req)

		e, err := h.deps.UpdateEvent(r.Context(), id, in)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[eventResponse](w, http.StatusOK, e)
	case http.MethodDelete:
		if err := h.deps.DeleteEvent(r.Context(), id); err != nil {
			writeFailure(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
