// Package auth implements password login and token issuance for the
// management API. Device access never goes through here; doors authenticate
// with NFC credentials only.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gatekeeper/internal/domain"
	domerrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/sentinel"
)

// UserStore is the slice of user persistence the login service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID, email string, expiresIn time.Duration) (string, error)
}

// Service validates credentials and issues tokens.
type Service struct {
	users    UserStore
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(users UserStore, tokens TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

// LoginResult carries the issued token and its subject.
type LoginResult struct {
	Token     string
	UserID    string
	ExpiresIn time.Duration
}

// Login verifies the email/password pair and returns a fresh token. Wrong
// passwords and unknown accounts are reported with distinct codes; the
// bcrypt comparison keeps timing flat across wrong-password attempts.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domerrors.New(domerrors.CodeValidation, "email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domerrors.New(domerrors.CodeNotFound, "user not found")
		}
		return nil, domerrors.Wrap(domerrors.CodeInternal, "look up user", err)
	}

	if u.PasswordHash == "" {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "password login not enabled for user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "failed login attempt", "user_id", u.UserID)
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(u.UserID, u.Email, s.tokenTTL)
	if err != nil {
		return nil, domerrors.Wrap(domerrors.CodeInternal, "issue token", err)
	}

	return &LoginResult{Token: token, UserID: u.UserID, ExpiresIn: s.tokenTTL}, nil
}

// HashPassword produces a bcrypt hash for seeding and account management.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
