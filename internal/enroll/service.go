// Package enroll registers NFC tags against user accounts. Enrollment is an
// authenticated management operation: the caller's token subject must match
// the account being enrolled.
package enroll

import (
	"context"
	"errors"
	"log/slog"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/nfc"
	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/requestcontext"
	"gatekeeper/pkg/sentinel"
)

// UserStore is the persistence surface enrollment needs.
type UserStore interface {
	FindByID(ctx context.Context, userID string) (domain.User, error)
	Save(ctx context.Context, u domain.User) error
	AppendCredential(ctx context.Context, userID string, cred domain.Credential) error
}

// Service performs tag enrollment.
type Service struct {
	users  UserStore
	hasher *nfc.Hasher
	logger *slog.Logger
}

func NewService(users UserStore, hasher *nfc.Hasher, logger *slog.Logger) *Service {
	return &Service{users: users, hasher: hasher, logger: logger}
}

// Result reports a completed enrollment.
type Result struct {
	UserID string
	Hash   string
}

// Enroll hashes uidHex and attaches it to userID as an ACTIVE credential.
// The account is created on first enrollment. A tag already enrolled as
// ACTIVE for the user is a conflict, not an idempotent success, so devices
// notice double-taps during provisioning.
func (s *Service) Enroll(ctx context.Context, userID, uidHex string) (*Result, error) {
	subject := requestcontext.UserID(ctx)
	if subject == "" {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "authentication required")
	}
	if subject != userID {
		return nil, domerrors.New(domerrors.CodeForbidden, "cannot enroll tags for another user")
	}
	if uidHex == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "uidHex is required")
	}

	hash := s.hasher.Hash(uidHex)

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.Wrap(domerrors.CodeInternal, "look up user", err)
		}
		if err := s.users.Save(ctx, domain.User{UserID: userID, Email: requestcontext.Email(ctx)}); err != nil {
			return nil, domerrors.Wrap(domerrors.CodeInternal, "create user", err)
		}
		s.logger.InfoContext(ctx, "created user on first enrollment", "user_id", userID)
	}

	err := s.users.AppendCredential(ctx, userID, domain.Credential{
		Hash:   hash,
		Status: domain.CredentialActive,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domerrors.New(domerrors.CodeConflict, "tag_already_assigned")
		}
		return nil, domerrors.Wrap(domerrors.CodeInternal, "store credential", err)
	}

	s.logger.InfoContext(ctx, "nfc tag enrolled", "user_id", userID, "uid_last4", nfc.Last4(uidHex))
	return &Result{UserID: userID, Hash: hash}, nil
}
