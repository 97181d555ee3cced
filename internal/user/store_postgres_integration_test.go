//go:build integration

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/domain"
	"gatekeeper/internal/user"
	"gatekeeper/pkg/sentinel"
	"gatekeeper/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "credentials", "users"))
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()

	u := domain.User{UserID: "user-1", Email: "ada@example.com"}
	s.Require().NoError(s.store.Save(ctx, u))

	byID, err := s.store.FindByID(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("ada@example.com", byID.Email)

	byEmail, err := s.store.FindByEmail(ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal("user-1", byEmail.UserID)
}

func (s *PostgresStoreSuite) TestFindMissingUser() {
	_, err := s.store.FindByID(context.Background(), "ghost")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestAppendCredential() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, domain.User{UserID: "user-1"}))

	cred := domain.Credential{Hash: "nfc:hmac256:abc", Status: domain.CredentialActive}
	s.Require().NoError(s.store.AppendCredential(ctx, "user-1", cred))

	u, err := s.store.FindByID(ctx, "user-1")
	s.Require().NoError(err)
	s.True(u.HasActiveCredential("nfc:hmac256:abc"))
}

func (s *PostgresStoreSuite) TestAppendCredentialConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, domain.User{UserID: "user-1"}))

	cred := domain.Credential{Hash: "nfc:hmac256:abc", Status: domain.CredentialActive}
	s.Require().NoError(s.store.AppendCredential(ctx, "user-1", cred))

	err := s.store.AppendCredential(ctx, "user-1", cred)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestAppendCredentialMissingUser() {
	cred := domain.Credential{Hash: "nfc:hmac256:abc", Status: domain.CredentialActive}
	err := s.store.AppendCredential(context.Background(), "ghost", cred)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
