package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is an in-process TokenStore for tests and single-node
// development runs. Expiry is checked lazily on Verify.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]memoryToken
	ttl    time.Duration
	now    func() time.Time
}

type memoryToken struct {
	userID    string
	expiresAt time.Time
}

// NewMemoryTokenStore creates an in-memory token store
func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &MemoryTokenStore{
		tokens: make(map[string]memoryToken),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a new token for the given user
func (s *MemoryTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens[token] = memoryToken{userID: userID, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return token, nil
}

// Verify resolves a token to its user id
func (s *MemoryTokenStore) Verify(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	entry, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return "", ErrInvalidToken
	}
	return entry.userID, nil
}

// Revoke deletes a token
func (s *MemoryTokenStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds
func (s *MemoryTokenStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (s *MemoryTokenStore) Close() error { return nil }
