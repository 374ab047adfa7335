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

// TipDependencies defines the interface for tip operations.
type TipDependencies interface {
	ReplayDependencies
	RecordTip(ctx context.Context, in service.RecordTipInput) (model.Tip, error)
	SettleTip(ctx context.Context, id string) (model.Tip, error)
	DeclineTip(ctx context.Context, id string) (model.Tip, error)
	GetTip(ctx context.Context, id string) (model.Tip, error)
	ListTips(ctx context.Context) []model.Tip
	ListTipsByDJ(ctx context.Context, djID string) []model.Tip
}

// TipsHandler handles tip requests.
type TipsHandler struct {
	deps TipDependencies
}

// NewTipsHandler creates a new tips handler.
func NewTipsHandler(deps TipDependencies) *TipsHandler {
	return &TipsHandler{deps: deps}
}

// recordTipRequest mirrors the OpenAPI schema for POST /tips.
type recordTipRequest struct {
	FanID  string `json:"fan_id"  validate:"required"`
	DJName string `json:"dj_name" validate:"required"`
	Amount uint64 `json:"amount"  validate:"required"`
}

type tipResponse struct {
	ID        string          `json:"id"`
	FanID     string          `json:"fan_id"`
	DJName    string          `json:"dj_name"`
	DJID      string          `json:"dj_id"`
	Amount    uint64          `json:"amount"`
	Status    model.TipStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	SettledAt *time.Time      `json:"settled_at,omitempty"`
}

// HandleTips handles POST /tips and GET /tips?dj_id=... requests.
func (h *TipsHandler) HandleTips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.record(w, r)
	case http.MethodGet:
		if djID := r.URL.Query().Get("dj_id"); djID != "" {
			listJSON[tipResponse](w, h.deps.ListTipsByDJ(r.Context(), djID))
			return
		}
		listJSON[tipResponse](w, h.deps.ListTips(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

func (h *TipsHandler) record(w http.ResponseWriter, r *http.Request) {
	var req recordTipRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}

	// Replay check happens before any state changes.
	key := r.Header.Get(idempotencyHeader)
	if key != "" && h.deps.SeenAndRecord(r.Context(), key) {
		writeError(w, http.StatusConflict, "duplicate_request",
			fmt.Errorf("%w: key %q already used", ErrDuplicate, key))
		return
	}

	var in service.RecordTipInput
	_ = copier.Copy(&in, &req)

	tip, err := h.deps.RecordTip(r.Context(), in)
	if err != nil {
		// Release the key so the client may retry with it.
		if key != "" {
			h.deps.Unrecord(r.Context(), key)
		}
		writeFailure(w, r, err)
		return
	}
	respondJSON[tipResponse](w, http.StatusCreated, tip)
}

// HandleTipByID handles GET /tips/{id}, POST /tips/{id}/settle, and
// POST /tips/{id}/decline requests.
func (h *TipsHandler) HandleTipByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/tips/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		tip, err := h.deps.GetTip(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[tipResponse](w, http.StatusOK, tip)
	case action == "settle" && r.Method == http.MethodPost:
		tip, err := h.deps.SettleTip(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[tipResponse](w, http.StatusOK, tip)
	case action == "decline" && r.Method == http.MethodPost:
		tip, err := h.deps.DeclineTip(r.Context(), id)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		respondJSON[tipResponse](w, http.StatusOK, tip)
	default:
		http.NotFound(w, r)
	}
}
