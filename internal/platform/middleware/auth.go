package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"gatekeeper/internal/jwttoken"
	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/httputil"
	"gatekeeper/pkg/requestcontext"
)

// JWTValidator is the slice of the token service the middleware needs.
type JWTValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified subject and email claims in the context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, domerrors.New(domerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, domerrors.New(domerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithUserID(ctx, claims.Subject)
			if claims.Email != "" {
				ctx = requestcontext.WithEmail(ctx, claims.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates identity claims when a valid bearer token is present
// but lets unauthenticated requests through. The access endpoint uses it: a
// verified claim wins over the body-supplied user ID, yet device-originated
// requests without tokens still reach the engine and fail closed there.
func OptionalAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.WarnContext(ctx, "ignoring invalid bearer token",
						"request_id", requestcontext.RequestID(ctx),
						"error", err,
					)
				} else {
					ctx = requestcontext.WithUserID(ctx, claims.Subject)
					if claims.Email != "" {
						ctx = requestcontext.WithEmail(ctx, claims.Email)
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
