// Package handler exposes the audit trail over HTTP for dashboards.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gatekeeper/internal/domain"
	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/httputil"
)

const (
	defaultLimit = 200
	maxLimit     = 500
)

// EventLister reads recent audit records, newest first.
type EventLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.AccessEvent, error)
	ListByUser(ctx context.Context, userID string) ([]domain.AccessEvent, error)
}

// Handler serves the audit listing endpoints.
type Handler struct {
	events EventLister
}

func New(events EventLister) *Handler {
	return &Handler{events: events}
}

// Register mounts the event routes. The router guards them with auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/access/events", h.handleList)
	r.Get("/api/users/{userID}/events", h.handleListByUser)
}

type listResponse struct {
	Events []domain.AccessEvent `json:"events"`
	Count  int                  `json:"count"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	events, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, domerrors.Wrap(domerrors.CodeInternal, "list events", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Events: events, Count: len(events)})
}

func (h *Handler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, domerrors.Wrap(domerrors.CodeInternal, "list user events", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Events: events, Count: len(events)})
}

// parseLimit clamps the requested page size to [1, 500], defaulting to 200.
// Unparsable values fall back to the default rather than erroring.
func parseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}
