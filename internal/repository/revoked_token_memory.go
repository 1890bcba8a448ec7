package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vasapolrittideah/account-api/shared/clock"
)

// InMemoryRevokedTokenStore keeps the denylist in process memory. Expired
// entries are ignored on read and removed by Sweep, which Run drives on an
// interval. Suitable for single-instance deployments and tests; the mongo
// backend covers everything else.
type InMemoryRevokedTokenStore struct {
	clock clock.Clock

	mu      sync.RWMutex
	entries map[string]revocationEntry
}

type revocationEntry struct {
	userID    string
	expiresAt time.Time
}

// NewInMemoryRevokedTokenStore creates an empty in-memory denylist.
func NewInMemoryRevokedTokenStore(clk clock.Clock) *InMemoryRevokedTokenStore {
	return &InMemoryRevokedTokenStore{
		clock:   clk,
		entries: make(map[string]revocationEntry),
	}
}

func (s *InMemoryRevokedTokenStore) Revoke(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[revokedTokenKeyPrefix+token] = revocationEntry{
		userID:    userID,
		expiresAt: s.clock.Now().Add(ttl),
	}

	return nil
}

func (s *InMemoryRevokedTokenStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[revokedTokenKeyPrefix+token]
	if !ok {
		return false, nil
	}

	return entry.expiresAt.After(s.clock.Now()), nil
}

// Sweep removes entries whose TTL has elapsed and returns how many were
// dropped.
func (s *InMemoryRevokedTokenStore) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if !entry.expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}

	return removed
}

// Run sweeps on the given interval until ctx is cancelled.
func (s *InMemoryRevokedTokenStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
