package user

import (
	"context"
	"fmt"
	"sync"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

// InMemory is a map-backed Store for tests and local development.
type InMemory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewInMemory creates an empty in-memory user store.
func NewInMemory() *InMemory {
	return &InMemory{users: make(map[string]domain.User)}
}

func (s *InMemory) FindByID(_ context.Context, userID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("user %q: %w", userID, sentinel.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return domain.User{}, fmt.Errorf("user email %q: %w", email, sentinel.ErrNotFound)
}

func (s *InMemory) Save(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.UserID]
	if ok {
		// Save never touches credentials; AppendCredential owns the list.
		u.Credentials = existing.Credentials
	}
	s.users[u.UserID] = cloneUser(u)
	return nil
}

func (s *InMemory) AppendCredential(_ context.Context, userID string, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %q: %w", userID, sentinel.ErrNotFound)
	}
	// Same uniqueness as the Postgres store's (user_id, hash) primary key.
	for _, existing := range u.Credentials {
		if existing.Hash == cred.Hash {
			return fmt.Errorf("credential %s for user %q: %w", cred.Hash, userID, sentinel.ErrConflict)
		}
	}
	u.Credentials = append(u.Credentials, cred)
	s.users[userID] = u
	return nil
}

func cloneUser(u domain.User) domain.User {
	out := u
	out.Credentials = make([]domain.Credential, len(u.Credentials))
	copy(out.Credentials, u.Credentials)
	return out
}
