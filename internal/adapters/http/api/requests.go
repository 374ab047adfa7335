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

// RequestDependencies defines the interface for song request operations.
type RequestDependencies interface {
	CreateSongRequest(ctx context.Context, in service.CreateSongRequestInput) (model.SongRequest, error)
	AdvanceSongRequest(ctx context.Context, id string, next model.RequestStatus) (model.SongRequest, error)
	GetSongRequest(ctx context.Context, id string) (model.SongRequest, error)
	ListSongRequests(ctx context.Context) []model.SongRequest
	ListSongRequestsByEvent(ctx context.Context, eventID string) []model.SongRequest
}

// RequestsHandler handles song request requests.
type RequestsHandler struct {
	deps RequestDependencies
}

// NewRequestsHandler creates a new song requests handler.
func NewRequestsHandler(deps RequestDependencies) *RequestsHandler {
	return &RequestsHandler{deps: deps}
}

// createRequestRequest mirrors the OpenAPI schema for POST /requests.
type createRequestRequest struct {
	FanID   string `json:"fan_id"   validate:"required"`
	EventID string `json:"event_id" validate:"required"`
	Title   string `json:"title"    validate:"required"`
	Artist  string `json:"artist"`
	Note    string `json:"note"     validate:"omitempty,max=500"`
}

type advanceRequestRequest struct {
	Status model.RequestStatus `json:"status" validate:"required,oneof=pending queued played declined"`
}

type songRequestResponse struct {
	ID        string              `json:"id"`
	FanID     string              `json:"fan_id"`
	EventID   string              `json:"event_id"`
	Title     string              `json:"title"`
	Artist    string              `json:"artist,omitempty"`
	Note      string              `json:"note,omitempty"`
	Status    model.RequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// HandleRequests handles POST /requests and GET /requests?event_id=... requests.
func (h *RequestsHandler) HandleRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		if eventID := r.URL.Query().Get("event_id"); eventID != "" {
			listJSON[songRequestResponse](w, h.deps.ListSongRequestsByEvent(r.Context(), eventID))
			return
		}
		listJSON[songRequestResponse](w, h.deps.ListSongRequests(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

func (h *RequestsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	var in service.CreateSongRequestInput
	_ = copier.Copy(&in, &req)

	sr, err := h.deps.CreateSongRequest(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	respondJSON[songRequestResponse](w, http.StatusCreated, sr)
}

// HandleRequestByID handles GET /requests/{id} and POST /requests/{id}/status
// requests.
func (h *RequestsHandler) HandleRequestByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/requests/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		sr, err := h.deps.GetSongRequest(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[songRequestResponse](w, http.StatusOK, sr)
	case action == "status" && r.Method == http.MethodPost:
		var req advanceRequestRequest
		if err := decodeBody(r, &req); err != nil {
			writeFailure(w, r, err)
			return
		}
		sr, err := h.deps.AdvanceSongRequest(r.Context(), id, req.Status)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[songRequestResponse](w, http.StatusOK, sr)
	default:
		http.NotFound(w, r)
	}
}
