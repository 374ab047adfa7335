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

// PlaylistDependencies defines the interface for playlist operations.
type PlaylistDependencies interface {
	CreatePlaylist(ctx context.Context, in service.CreatePlaylistInput) (model.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (model.Playlist, error)
	ListPlaylists(ctx context.Context) []model.Playlist
	ListPlaylistsByOwner(ctx context.Context, ownerID string) []model.Playlist
	AppendTrack(ctx context.Context, id string, track model.Track) (model.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
}

// PlaylistsHandler handles playlist requests.
type PlaylistsHandler struct {
	deps PlaylistDependencies
}

// NewPlaylistsHandler creates a new playlists handler.
func NewPlaylistsHandler(deps PlaylistDependencies) *PlaylistsHandler {
	return &PlaylistsHandler{deps: deps}
}

// trackPayload is shared by playlist creation and track appends.
type trackPayload struct {
	Title     string `json:"title" validate:"required"`
	Artist    string `json:"artist"`
	DurationS uint32 `json:"duration_s"`
}

// createPlaylistRequest mirrors the OpenAPI schema for POST /playlists.
type createPlaylistRequest struct {
	OwnerID string         `json:"owner_id" validate:"required"`
	Name    string         `json:"name"     validate:"required"`
	Tracks  []trackPayload `json:"tracks"   validate:"omitempty,dive"`
}

type playlistResponse struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Name      string         `json:"name"`
	Tracks    []trackPayload `json:"tracks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HandlePlaylists handles POST /playlists and GET /playlists?owner_id=... requests.
func (h *PlaylistsHandler) HandlePlaylists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
			listJSON[playlistResponse](w, h.deps.ListPlaylistsByOwner(r.Context(), ownerID))
			return
		}
		listJSON[playlistResponse](w, h.deps.ListPlaylists(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

func (h *PlaylistsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	var in service.CreatePlaylistInput
	_ = copier.Copy(&in, &req)

	p, err := h.deps.CreatePlaylist(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	respondJSON[playlistResponse](w, http.StatusCreated, p)
}

// HandlePlaylistByID handles GET and DELETE /playlists/{id} and
// POST /playlists/{id}/tracks requests.
func (h *PlaylistsHandler) HandlePlaylistByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/playlists/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		p, err := h.deps.GetPlaylist(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[playlistResponse](w, http.StatusOK, p)
	case action == "" && r.Method == http.MethodDelete:
		if err := h.deps.DeletePlaylist(r.Context(), id); err != nil {
			writeFailure(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case action == "tracks" && r.Method == http.MethodPost:
		var req trackPayload
		if err := decodeBody(r, &req); err != nil {
			writeFailure(w, r, err)
			return
		}
		var track model.Track
		_ = copier.Copy(&track, &req)

		p, err := h.deps.AppendTrack(r.Context(), id, track)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[playlistResponse](w, http.StatusOK, p)
	default:
		http.NotFound(w, r)
	}
}
