// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"

	service "djboard/internal/app"
	"djboard/internal/domain/board"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) ([]board.Entry, error)
	TopDJs(ctx context.Context, n int) ([]board.Entry, error)
	SearchDJsByRatingFloor(ctx context.Context, floor float64) ([]service.DJSearchResult, error)
	DJStanding(ctx context.Context, djID string) (board.Entry, int, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

type boardEntryResponse struct {
	DJID              string    `json:"dj_id"`
	DJName            string    `json:"dj_name"`
	TotalTips         uint64    `json:"total_tips"`
	TotalRatings      uint64    `json:"total_ratings"`
	TotalRatingPoints uint64    `json:"total_rating_points"`
	AvgRating         float64   `json:"avg_rating"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type standingResponse struct {
	Entry boardEntryResponse `json:"entry"`
	Rank  int                `json:"rank"`
}

type djSearchResponse struct {
	DJ    userResponse       `json:"dj"`
	Entry boardEntryResponse `json:"entry"`
}

// HandleLeaderboard handles GET /leaderboard requests.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	listJSON[boardEntryResponse](w, entries)
}

// HandleLeaderboardPath handles GET /leaderboard/top?n=N and
// GET /leaderboard/{dj_id} requests.
func (h *LeaderboardHandler) HandleLeaderboardPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/leaderboard/")
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if rest == "top" {
		h.top(w, r)
		return
	}

	entry, rank, err := h.deps.DJStanding(r.Context(), rest)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	resp := standingResponse{Rank: rank}
	_ = copier.Copy(&resp.Entry, &entry)
	writeJSON(w, http.StatusOK, resp)
}

func (h *LeaderboardHandler) top(w http.ResponseWriter, r *http.Request) {
	// Absent n falls back to the service default.
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		n = parsed
	}

	entries, err := h.deps.TopDJs(r.Context(), n)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	listJSON[boardEntryResponse](w, entries)
}

// HandleDJSearch handles GET /djs/search?min_rating=X requests.
func (h *LeaderboardHandler) HandleDJSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := r.URL.Query().Get("min_rating")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	floor, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	results, err := h.deps.SearchDJsByRatingFloor(r.Context(), floor)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	listJSON[djSearchResponse](w, results)
}
