package enroll

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/httputil"
)

// EnrollService is the handler's view of enrollment.
type EnrollService interface {
	Enroll(ctx context.Context, userID, uidHex string) (*Result, error)
}

// Handler serves the enrollment endpoint.
type Handler struct {
	svc EnrollService
}

func NewHandler(svc EnrollService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the enrollment route. The route itself requires an
// authenticated caller; the router applies that middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/users/{userID}/credentials", h.handleEnroll)
}

type enrollRequest struct {
	UIDHex string `json:"uidHex"`
}

type enrollResponse struct {
	OK     bool   `json:"ok"`
	UserID string `json:"userId"`
	Hash   string `json:"hash"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}

	res, err := h.svc.Enroll(r.Context(), chi.URLParam(r, "userID"), req.UIDHex)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, enrollResponse{OK: true, UserID: res.UserID, Hash: res.Hash})
}
