// Package access implements the door access decision engine. All three
// transports (REST, queue, duplex channel) feed the same engine; they differ
// only in how they shape input and output.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gatekeeper/internal/access/metrics"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/nfc"
	"gatekeeper/internal/schedule"
	"gatekeeper/pkg/requestcontext"
	"gatekeeper/pkg/sentinel"
)

// Engine evaluates one decision request into exactly one terminal decision
// with exactly one audit append and at most one notification publish. It is
// stateless; concurrent evaluations are fully independent.
type Engine struct {
	users    UserStore
	configs  ConfigStore
	hasher   *nfc.Hasher
	audit    AuditLog
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// NewEngine constructs the engine with explicit dependencies, wired once at
// process start. There is no lazily discovered global state here.
func NewEngine(
	users UserStore,
	configs ConfigStore,
	hasher *nfc.Hasher,
	auditLog AuditLog,
	notifier Notifier,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		users:    users,
		configs:  configs,
		hasher:   hasher,
		audit:    auditLog,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("gatekeeper/access"),
	}
}

// Evaluate runs the decision state machine:
//
//	ValidateInput → LookupUser → VerifyCredential → LoadPolicy →
//	EvaluateSchedule → Allow | Deny(reason)
//
// Denials are policy outcomes and fail closed. A configuration fault (door
// policy unreadable) is returned as an error instead of a decision; it is
// never interpreted as allow or deny. Audit and notification failures are
// logged and counted but do not change the returned decision.
func (e *Engine) Evaluate(ctx context.Context, req Request) (Decision, error) {
	ctx, span := e.tracer.Start(ctx, "access.evaluate",
		trace.WithAttributes(
			attribute.String("access.origin", string(req.Origin)),
			attribute.String("access.door_id", req.DoorID),
		))
	defer span.End()

	start := time.Now()
	defer func() { e.metrics.EvaluateDuration.Observe(time.Since(start).Seconds()) }()

	now := requestcontext.Now(ctx)

	// ValidateInput: fail fast, before any store access. The deny record and
	// notification are the only side effects of a malformed request.
	if req.UserID == "" || req.UIDHex == "" {
		return e.deny(ctx, req, "", ReasonMissingFields, now), nil
	}

	hash := e.hasher.Hash(req.UIDHex)

	user, err := e.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return e.deny(ctx, req, hash, ReasonUserNotFound, now), nil
		}
		return Decision{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasActiveCredential(hash) {
		return e.deny(ctx, req, hash, ReasonNFCNotRegistered, now), nil
	}

	cfg, err := e.configs.Get(ctx, domain.GlobalConfigID)
	if err != nil {
		// Includes sentinel.ErrConfigMissing: a configuration fault is an
		// operational error, not a policy outcome.
		return Decision{}, fmt.Errorf("load door policy: %w", err)
	}

	open, err := schedule.IsOpen(cfg, now)
	if err != nil {
		return Decision{}, fmt.Errorf("evaluate schedule: %w", err)
	}
	if !open {
		return e.deny(ctx, req, hash, ReasonOutOfSchedule, now), nil
	}

	return e.allow(ctx, req, hash, now), nil
}

func (e *Engine) allow(ctx context.Context, req Request, hash string, now time.Time) Decision {
	e.record(ctx, req, hash, domain.ResultAllow, ReasonOK, now)
	return Decision{Allowed: true, Reason: ReasonOK, UserID: req.UserID}
}

func (e *Engine) deny(ctx context.Context, req Request, hash string, reason Reason, now time.Time) Decision {
	e.record(ctx, req, hash, domain.ResultDeny, reason, now)
	return Decision{Allowed: false, Reason: reason, UserID: req.UserID}
}

// record performs the terminal side effects: one audit append and one
// notification publish (unless suppressed). Failures in either are reported
// operationally and never roll back the decision.
func (e *Engine) record(ctx context.Context, req Request, hash string, result domain.AccessResult, reason Reason, now time.Time) {
	event := domain.AccessEvent{
		UserID:     req.UserID,
		Email:      req.Email,
		DoorID:     doorOrDash(req.DoorID),
		Result:     result,
		Reason:     string(reason),
		HTTPStatus: httpStatusHint(req.Origin, result),
		NFCHash:    hash,
		UIDLast4:   nfc.Last4(req.UIDHex),
		Origin:     req.Origin,
		RequestID:  req.RequestID,
		SourceIP:   req.SourceIP,
		UserAgent:  req.UserAgent,
		OccurredAt: now,
	}
	if err := e.audit.Append(ctx, event); err != nil {
		e.metrics.AuditFailures.Inc()
		e.logger.ErrorContext(ctx, "audit append failed",
			"request_id", req.RequestID,
			"user_id", req.UserID,
			"result", result,
			"error", err,
		)
	}

	e.metrics.RecordDecision(string(result), string(reason))

	if req.SuppressNotify {
		return
	}
	notice := ResultEvent{
		UserID:     req.UserID,
		DoorID:     req.DoorID,
		Allowed:    result == domain.ResultAllow,
		Reason:     reason,
		Origin:     req.Origin,
		OccurredAt: now,
	}
	if err := e.notifier.PublishResult(ctx, notice); err != nil {
		e.metrics.NotifyFailures.Inc()
		e.logger.ErrorContext(ctx, "notification publish failed",
			"request_id", req.RequestID,
			"user_id", req.UserID,
			"result", result,
			"error", err,
		)
	}
}

// httpStatusHint is a diagnostic recorded on the audit event. Only REST
// requests carry one; the adapter's actual response status may differ for
// denials it maps to 400/404.
func httpStatusHint(origin domain.Origin, result domain.AccessResult) int {
	if origin != domain.OriginREST {
		return 0
	}
	if result == domain.ResultAllow {
		return http.StatusOK
	}
	return http.StatusForbidden
}

func doorOrDash(doorID string) string {
	if doorID == "" {
		return "-"
	}
	return doorID
}
