package access

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"gatekeeper/internal/domain"
)

// UserStore is the read side of user persistence the engine needs. A missing
// user surfaces as sentinel.ErrNotFound and becomes a policy denial.
type UserStore interface {
	FindByID(ctx context.Context, userID string) (domain.User, error)
}

// ConfigStore reads door policy. A missing GLOBAL record surfaces as
// sentinel.ErrConfigMissing and is reported as an operational fault, never as
// a denial.
type ConfigStore interface {
	Get(ctx context.Context, id string) (domain.DoorConfig, error)
}

// AuditLog appends decision records. Append-only; the engine makes exactly
// one append per terminal decision.
type AuditLog interface {
	Append(ctx context.Context, event domain.AccessEvent) error
}

// Notifier dispatches the decision to downstream actuators and observers.
// At-least-once; failures never alter an already-computed decision.
type Notifier interface {
	PublishResult(ctx context.Context, result ResultEvent) error
}
