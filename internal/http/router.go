// Package http assembles the service's HTTP surface: the REST access API,
// management endpoints, the websocket upgrade and operational routes.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accesshandler "gatekeeper/internal/access/handler"
	audithandler "gatekeeper/internal/audit/handler"
	"gatekeeper/internal/auth"
	"gatekeeper/internal/enroll"
	"gatekeeper/internal/platform/middleware"
	"gatekeeper/internal/transport/ws"
	"gatekeeper/pkg/httputil"
)

// HealthChecker reports the liveness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts. Nil optional fields disable
// the corresponding route or check.
type Deps struct {
	Access    *accesshandler.Handler
	Auth      *auth.Handler
	Enroll    *enroll.Handler
	Events    *audithandler.Handler
	WS        *ws.Handler
	Validator middleware.JWTValidator
	Logger    *slog.Logger

	// Health checks, keyed by dependency name.
	Checks map[string]HealthChecker
}

// New builds the full router.
func New(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))

	// Public routes.
	d.Auth.Register(r)
	r.Get("/healthz", handleHealth(d.Checks))
	r.Handle("/metrics", promhttp.Handler())

	// The access endpoint accepts both kinds of callers: door firmware
	// posting a userId in the body and authenticated humans whose token
	// subject takes precedence.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(d.Validator, d.Logger))
		d.Access.Register(r)
	})

	// Management routes require a valid token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		d.Enroll.Register(r)
		d.Events.Register(r)
	})

	if d.WS != nil {
		r.Handle("/ws", d.WS)
	}

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		out := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				out["status"] = "degraded"
				out[name] = err.Error()
			} else {
				out[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, out)
	}
}
