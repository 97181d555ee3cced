// Package audit keeps the append-only record of access decisions.
//
// Records are never updated or deleted here; retention and purge belong to an
// external process. Retried appends produce additional records rather than
// being deduplicated, which is acceptable for an at-least-once pipeline.
package audit

import (
	"context"

	"gatekeeper/internal/domain"
)

// Store is the append-only event log. Per-user ordering is chronological via
// the (user_id, occurred_at, result) composite key; there is no cross-user
// ordering guarantee.
type Store interface {
	Append(ctx context.Context, event domain.AccessEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AccessEvent, error)
	ListByUser(ctx context.Context, userID string) ([]domain.AccessEvent, error)
}
