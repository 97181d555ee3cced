package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatekeeper/internal/access"
	"gatekeeper/internal/doorconfig"
	"gatekeeper/internal/domain"
	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/httputil"
	"gatekeeper/pkg/requestcontext"
)

// Engine evaluates an access request and returns the decision.
type Engine interface {
	Evaluate(ctx context.Context, req access.Request) (access.Decision, error)
}

// Handler serves the REST access endpoint.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

func New(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Register mounts the access routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/access/request", h.handleRequest)
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	var body accessRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}

	ctx := r.Context()

	// An authenticated token wins over the body; unauthenticated callers
	// may still identify themselves in the payload.
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		userID = body.UserID
	}
	if userID == "" {
		writeDenied(w, http.StatusUnauthorized, "userId_missing")
		return
	}

	req := access.Request{
		UserID:    userID,
		UIDHex:    body.UIDHex,
		DoorID:    body.DoorID,
		Email:     requestcontext.Email(ctx),
		Origin:    domain.OriginREST,
		RequestID: requestcontext.RequestID(ctx),
		SourceIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	}

	decision, err := h.engine.Evaluate(ctx, req)
	if err != nil {
		if doorconfig.IsConfigFault(err) {
			h.logger.ErrorContext(ctx, "door policy unavailable", "error", err)
		}
		httputil.WriteError(w, domerrors.Wrap(domerrors.CodeInternal, "access evaluation failed", err))
		return
	}

	if decision.Allowed {
		httputil.WriteJSON(w, http.StatusOK, accessResponse{Allowed: true, UserID: decision.UserID, DoorID: req.DoorID})
		return
	}
	writeDenied(w, statusForReason(decision.Reason), string(decision.Reason))
}

// statusForReason maps a deny reason to its REST status code.
func statusForReason(reason access.Reason) int {
	switch reason {
	case access.ReasonMissingFields:
		return http.StatusBadRequest
	case access.ReasonUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusForbidden
	}
}

func writeDenied(w http.ResponseWriter, status int, reason string) {
	httputil.WriteJSON(w, status, accessResponse{Allowed: false, Reason: reason})
}
