// Package user persists identity records and their enrolled credentials.
package user

import (
	"context"

	"gatekeeper/internal/domain"
)

// Store is interface-driven to keep the decision engine testable and to allow
// swapping in-memory and Postgres persistence without rewiring business code.
type Store interface {
	// FindByID returns the user with its full credential list.
	// Returns sentinel.ErrNotFound (possibly wrapped) when absent.
	FindByID(ctx context.Context, userID string) (domain.User, error)

	// FindByEmail returns the user owning the given email address.
	// Returns sentinel.ErrNotFound (possibly wrapped) when absent.
	FindByEmail(ctx context.Context, email string) (domain.User, error)

	// Save creates or replaces the user record (credentials excluded).
	Save(ctx context.Context, u domain.User) error

	// AppendCredential adds a credential to the user's ordered list.
	AppendCredential(ctx context.Context, userID string, cred domain.Credential) error
}
