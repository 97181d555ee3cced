package audit

import (
	"context"
	"sort"
	"sync"

	"gatekeeper/internal/domain"
)

// InMemory is a slice-backed Store for tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	events []domain.AccessEvent
}

// NewInMemory creates an empty in-memory audit store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, event domain.AccessEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemory) ListRecent(_ context.Context, limit int) ([]domain.AccessEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccessEvent, len(s.events))
	copy(out, s.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) ListByUser(_ context.Context, userID string) ([]domain.AccessEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AccessEvent
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out, nil
}

// Len reports the number of appended events. Test helper.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
