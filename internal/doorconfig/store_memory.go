package doorconfig

import (
	"context"
	"fmt"
	"sync"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

// InMemory is a map-backed Store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	configs map[string]domain.DoorConfig
}

// NewInMemory creates an empty in-memory config store.
func NewInMemory() *InMemory {
	return &InMemory{configs: make(map[string]domain.DoorConfig)}
}

func (s *InMemory) Get(_ context.Context, id string) (domain.DoorConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[id]
	if !ok {
		return domain.DoorConfig{}, fmt.Errorf("door config %q: %w", id, sentinel.ErrConfigMissing)
	}
	return cfg, nil
}

func (s *InMemory) Put(_ context.Context, cfg domain.DoorConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.ID] = cfg
	return nil
}
