package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/auth"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/jwttoken"
	"gatekeeper/internal/user"
	domerrors "gatekeeper/pkg/domain-errors"
)

func newLoginService(t *testing.T) (*auth.Service, *user.InMemory) {
	t.Helper()
	users := user.NewInMemory()
	tokens := jwttoken.New("login-test-key", "gatekeeper", "gatekeeper-api")
	return auth.NewService(users, tokens, time.Hour, slog.New(slog.DiscardHandler)), users
}

func seedUser(t *testing.T, users *user.InMemory, email, password string) domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := domain.User{UserID: "user-1", Email: email, PasswordHash: hash}
	require.NoError(t, users.Save(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, users := newLoginService(t)
	seedUser(t, users, "ada@example.com", "correct horse")

	res, err := svc.Login(context.Background(), "ada@example.com", "correct horse")

	require.NoError(t, err)
	assert.Equal(t, "user-1", res.UserID)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, time.Hour, res.ExpiresIn)
}

func TestLogin_NormalizesEmail(t *testing.T) {
	svc, users := newLoginService(t)
	seedUser(t, users, "ada@example.com", "correct horse")

	_, err := svc.Login(context.Background(), "  Ada@Example.COM ", "correct horse")
	require.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users := newLoginService(t)
	seedUser(t, users, "ada@example.com", "correct horse")

	_, err := svc.Login(context.Background(), "ada@example.com", "battery staple")

	require.Error(t, err)
	assert.True(t, domerrors.Is(err, domerrors.CodeUnauthorized))
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newLoginService(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

	require.Error(t, err)
	assert.True(t, domerrors.Is(err, domerrors.CodeNotFound))
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newLoginService(t)

	_, err := svc.Login(context.Background(), "", "")

	require.Error(t, err)
	assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
}

func TestLogin_NoPasswordHash(t *testing.T) {
	svc, users := newLoginService(t)
	require.NoError(t, users.Save(context.Background(), domain.User{UserID: "nfc-only", Email: "door@example.com"}))

	_, err := svc.Login(context.Background(), "door@example.com", "anything")

	require.Error(t, err)
	assert.True(t, domerrors.Is(err, domerrors.CodeUnauthorized))
}
