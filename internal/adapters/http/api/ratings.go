// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jinzhu/copier"

	service "djboard/internal/app"
	"djboard/internal/domain/model"
)

// RatingDependencies defines the interface for rating operations.
type RatingDependencies interface {
	ReplayDependencies
	RecordRating(ctx context.Context, in service.RecordRatingInput) (model.Rating, error)
	GetRating(ctx context.Context, id string) (model.Rating, error)
	ListRatings(ctx context.Context) []model.Rating
	ListRatingsByDJ(ctx context.Context, djID string) []model.Rating
}

// RatingsHandler handles rating requests.
type RatingsHandler struct {
	deps RatingDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

// recordRatingRequest mirrors the OpenAPI schema for POST /ratings.
type recordRatingRequest struct {
	FanID  string `json:"fan_id"  validate:"required"`
	DJName string `json:"dj_name" validate:"required"`
	Stars  uint8  `json:"stars"   validate:"required,min=1,max=5"`
	Review string `json:"review"  validate:"omitempty,max=2000"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	FanID     string    `json:"fan_id"`
	DJName    string    `json:"dj_name"`
	DJID      string    `json:"dj_id"`
	Stars     uint8     `json:"stars"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleRatings handles POST /ratings and GET /ratings?dj_id=... requests.
func (h *RatingsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.record(w, r)
	case http.MethodGet:
		if djID := r.URL.Query().Get("dj_id"); djID != "" {
			listJSON[ratingResponse](w, h.deps.ListRatingsByDJ(r.Context(), djID))
			return
		}
		listJSON[ratingResponse](w, h.deps.ListRatings(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

func (h *RatingsHandler) record(w http.ResponseWriter, r *http.Request) {
	var req recordRatingRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	key := r.Header.Get(idempotencyHeader)
	if key != "" && h.deps.SeenAndRecord(r.Context(), key) {
		writeError(w, http.StatusConflict, "duplicate_request",
			fmt.Errorf("%w: key %q already used", ErrDuplicate, key))
		return
	}

	var in service.RecordRatingInput
	_ = copier.Copy(&in, &req)

	rating, err := h.deps.RecordRating(r.Context(), in)
	if err != nil {
		if key != "" {
			h.deps.Unrecord(r.Context(), key)
		}
		writeFailure(w, r, err)
		return
	}
	respondJSON[ratingResponse](w, http.StatusCreated, rating)
}

// HandleRatingByID handles GET /ratings/{id} requests.
func (h *RatingsHandler) HandleRatingByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/ratings/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	rating, err := h.deps.GetRating(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	respondJSON[ratingResponse](w, http.StatusOK, rating)
}
