package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/glcore/internal/usecase"
)

// IdempotencyStore implements usecase.IdempotencyStore in process. It backs
// the memory storage mode, where no Redis is configured.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	now     func() time.Time
}

type idempotencyEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewIdempotencyStore creates an empty store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idempotencyEntry), now: time.Now}
}

func (s *IdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return true, e.value, nil
	}

	value := response
	if value == nil {
		value = []byte(usecase.IdempotencyInFlight)
	}
	s.entries[key] = idempotencyEntry{value: value, expiresAt: now.Add(ttl)}

	return false, nil, nil
}

func (s *IdempotencyStore) Update(_ context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{value: response, expiresAt: s.now().Add(ttl)}

	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}
