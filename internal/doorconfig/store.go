// Package doorconfig persists the singleton door access policy.
package doorconfig

import (
	"context"

	"gatekeeper/internal/domain"
)

// Store reads and writes door configuration. A missing GLOBAL record is a
// configuration fault: implementations return sentinel.ErrConfigMissing
// (possibly wrapped) so callers never mistake it for a policy denial.
type Store interface {
	Get(ctx context.Context, id string) (domain.DoorConfig, error)
	Put(ctx context.Context, cfg domain.DoorConfig) error
}
