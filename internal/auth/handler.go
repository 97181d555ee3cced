package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/httputil"
)

// LoginService is the handler's view of the login flow.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// Handler serves the authentication endpoints.
type Handler struct {
	svc LoginService
}

func NewHandler(svc LoginService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the auth routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		UserID:    res.UserID,
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
	})
}
