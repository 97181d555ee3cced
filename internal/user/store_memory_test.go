package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) newUser(id, email string) domain.User {
	now := time.Now()
	return domain.User{UserID: id, Email: email, CreatedAt: now, UpdatedAt: now}
}

func (s *UserStoreSuite) TestSaveAndLookups() {
	s.Run("finds saved user by ID", func() {
		u := s.newUser("user-1", "one@example.com")
		s.Require().NoError(s.store.Save(s.ctx, u))

		found, err := s.store.FindByID(s.ctx, "user-1")
		s.Require().NoError(err)
		s.Equal("one@example.com", found.Email)
	})

	s.Run("finds saved user by email", func() {
		u := s.newUser("user-2", "two@example.com")
		s.Require().NoError(s.store.Save(s.ctx, u))

		found, err := s.store.FindByEmail(s.ctx, "two@example.com")
		s.Require().NoError(err)
		s.Equal("user-2", found.UserID)
	})

	s.Run("missing user returns ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, "ghost")
		s.ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByEmail(s.ctx, "ghost@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserStoreSuite) TestAppendCredential() {
	s.Run("appends in enrollment order", func() {
		s.Require().NoError(s.store.Save(s.ctx, s.newUser("user-3", "")))

		first := domain.Credential{Hash: "nfc:hmac256:aaa", Status: domain.CredentialActive, CreatedAt: time.Now()}
		second := domain.Credential{Hash: "nfc:hmac256:bbb", Status: domain.CredentialActive, CreatedAt: time.Now()}
		s.Require().NoError(s.store.AppendCredential(s.ctx, "user-3", first))
		s.Require().NoError(s.store.AppendCredential(s.ctx, "user-3", second))

		found, err := s.store.FindByID(s.ctx, "user-3")
		s.Require().NoError(err)
		s.Require().Len(found.Credentials, 2)
		s.Equal("nfc:hmac256:aaa", found.Credentials[0].Hash)
		s.Equal("nfc:hmac256:bbb", found.Credentials[1].Hash)
	})

	s.Run("duplicate hash returns ErrConflict", func() {
		s.Require().NoError(s.store.Save(s.ctx, s.newUser("user-4", "")))

		cred := domain.Credential{Hash: "nfc:hmac256:dup", Status: domain.CredentialActive, CreatedAt: time.Now()}
		s.Require().NoError(s.store.AppendCredential(s.ctx, "user-4", cred))

		err := s.store.AppendCredential(s.ctx, "user-4", cred)
		s.ErrorIs(err, sentinel.ErrConflict)

		found, err := s.store.FindByID(s.ctx, "user-4")
		s.Require().NoError(err)
		s.Len(found.Credentials, 1)
	})

	s.Run("unknown user returns ErrNotFound", func() {
		err := s.store.AppendCredential(s.ctx, "ghost", domain.Credential{Hash: "nfc:hmac256:ccc"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("re-saving the user keeps credentials", func() {
		u := s.newUser("user-4", "")
		s.Require().NoError(s.store.Save(s.ctx, u))
		s.Require().NoError(s.store.AppendCredential(s.ctx, "user-4", domain.Credential{
			Hash: "nfc:hmac256:ddd", Status: domain.CredentialActive,
		}))

		u.Email = "four@example.com"
		s.Require().NoError(s.store.Save(s.ctx, u))

		found, err := s.store.FindByID(s.ctx, "user-4")
		s.Require().NoError(err)
		s.Equal("four@example.com", found.Email)
		s.Len(found.Credentials, 1)
	})

	s.Run("returned user is a copy", func() {
		s.Require().NoError(s.store.Save(s.ctx, s.newUser("user-5", "")))
		s.Require().NoError(s.store.AppendCredential(s.ctx, "user-5", domain.Credential{
			Hash: "nfc:hmac256:eee", Status: domain.CredentialActive,
		}))

		found, _ := s.store.FindByID(s.ctx, "user-5")
		found.Credentials[0].Status = domain.CredentialDisabled

		again, _ := s.store.FindByID(s.ctx, "user-5")
		s.Equal(domain.CredentialActive, again.Credentials[0].Status)
	})
}
