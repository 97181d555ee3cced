package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/domain"
)

type AuditStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AuditStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) event(userID string, at time.Time, result domain.AccessResult) domain.AccessEvent {
	return domain.AccessEvent{
		UserID:     userID,
		DoorID:     "main",
		Result:     result,
		Reason:     "ok",
		Origin:     domain.OriginREST,
		OccurredAt: at,
	}
}

func (s *AuditStoreSuite) TestAppendIsAppendOnly() {
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(s.ctx, s.event("u1", base, domain.ResultAllow)))
	s.Require().NoError(s.store.Append(s.ctx, s.event("u1", base, domain.ResultAllow)))

	// Duplicate appends add records; nothing is deduplicated or overwritten.
	s.Equal(2, s.store.Len())
}

func (s *AuditStoreSuite) TestListRecentNewestFirst() {
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Append(s.ctx, s.event("u1", base, domain.ResultAllow)))
	s.Require().NoError(s.store.Append(s.ctx, s.event("u2", base.Add(time.Minute), domain.ResultDeny)))
	s.Require().NoError(s.store.Append(s.ctx, s.event("u3", base.Add(2*time.Minute), domain.ResultAllow)))

	events, err := s.store.ListRecent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("u3", events[0].UserID)
	s.Equal("u2", events[1].UserID)
}

func (s *AuditStoreSuite) TestListByUserChronological() {
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Append(s.ctx, s.event("u1", base.Add(time.Hour), domain.ResultDeny)))
	s.Require().NoError(s.store.Append(s.ctx, s.event("u1", base, domain.ResultAllow)))
	s.Require().NoError(s.store.Append(s.ctx, s.event("u2", base, domain.ResultAllow)))

	events, err := s.store.ListByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(domain.ResultAllow, events[0].Result)
	s.Equal(domain.ResultDeny, events[1].Result)
}
