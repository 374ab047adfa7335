// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/jinzhu/copier"

	service "djboard/internal/app"
	"djboard/internal/domain/board"
	"djboard/internal/domain/identity"
	"djboard/internal/domain/validate"
	"djboard/pkg/logger"
)

// idempotencyHeader carries the client-chosen replay key on tip and rating
// submissions.
const idempotencyHeader = "Idempotency-Key"

// ReplayDependencies is the idempotency surface used by write endpoints.
type ReplayDependencies interface {
	SeenAndRecord(ctx context.Context, key string) bool
	Unrecord(ctx context.Context, key string)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	UserDependencies
	TipDependencies
	RatingDependencies
	RequestDependencies
	EventDependencies
	PlaylistDependencies
	LeaderboardDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	usersHandler       *UsersHandler
	tipsHandler        *TipsHandler
	ratingsHandler     *RatingsHandler
	requestsHandler    *RequestsHandler
	eventsHandler      *EventsHandler
	playlistsHandler   *PlaylistsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		usersHandler:       NewUsersHandler(deps),
		tipsHandler:        NewTipsHandler(deps),
		ratingsHandler:     NewRatingsHandler(deps),
		requestsHandler:    NewRequestsHandler(deps),
		eventsHandler:      NewEventsHandler(deps),
		playlistsHandler:   NewPlaylistsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/users", MetricsMiddleware(s.usersHandler.HandleUsers, "users"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleUserByID, "user"))
	mux.HandleFunc("/tips", MetricsMiddleware(s.tipsHandler.HandleTips, "tips"))
	mux.HandleFunc("/tips/", MetricsMiddleware(s.tipsHandler.HandleTipByID, "tip"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingsHandler.HandleRatings, "ratings"))
	mux.HandleFunc("/ratings/", MetricsMiddleware(s.ratingsHandler.HandleRatingByID, "rating"))
	mux.HandleFunc("/requests", MetricsMiddleware(s.requestsHandler.HandleRequests, "requests"))
	mux.HandleFunc("/requests/", MetricsMiddleware(s.requestsHandler.HandleRequestByID, "request"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleEventByID, "event"))
	mux.HandleFunc("/playlists", MetricsMiddleware(s.playlistsHandler.HandlePlaylists, "playlists"))
	mux.HandleFunc("/playlists/", MetricsMiddleware(s.playlistsHandler.HandlePlaylistByID, "playlist"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleLeaderboard, "leaderboard"))
	mux.HandleFunc("/leaderboard/", MetricsMiddleware(s.leaderboardHandler.HandleLeaderboardPath, "standing"))
	mux.HandleFunc("/djs/search", MetricsMiddleware(s.leaderboardHandler.HandleDJSearch, "dj_search"))
}

// listResponse is the envelope for collection endpoints.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error onto the API error classes. Internal
// errors are logged and answered with a generic message.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed", logger.Error(err))
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}

// respondJSON copies row into the response DTO D and writes it.
func respondJSON[D any, R any](w http.ResponseWriter, status int, row R) {
	var out D
	_ = copier.Copy(&out, &row)
	writeJSON(w, status, out)
}

// listJSON copies rows into response DTOs and wraps them in the envelope.
func listJSON[D any, R any](w http.ResponseWriter, rows []R) {
	items := make([]D, 0, len(rows))
	_ = copier.Copy(&items, &rows)
	writeJSON(w, http.StatusOK, listResponse[D]{Items: items, Count: len(items)})
}

// decodeBody reads the JSON body into v and runs struct validation on it.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return validate.Struct(v)
}

var notFoundClass = []error{
	service.ErrUserNotFound,
	service.ErrTipNotFound,
	service.ErrRatingNotFound,
	service.ErrRequestNotFound,
	service.ErrEventNotFound,
	service.ErrPlaylistNotFound,
	service.ErrNoMatches,
	identity.ErrUnknownDJ,
	board.ErrNoEntries,
	board.ErrEntryNotFound,
}

var badPayloadClass = []error{
	validate.ErrInvalidPayload,
	board.ErrInvalidLimit,
	service.ErrBadTransition,
	ErrBadRequest,
}

var conflictClass = []error{
	service.ErrTipSettled,
	ErrDuplicate,
}

func classify(err error) (int, string) {
	switch {
	case matchesAny(err, conflictClass):
		return http.StatusConflict, "conflict"
	case matchesAny(err, notFoundClass):
		return http.StatusNotFound, "not_found"
	case matchesAny(err, badPayloadClass):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal_error"
}

func matchesAny(err error, class []error) bool {
	for _, target := range class {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
