package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// Stale timestamps are purged lazily on each access; a key whose window
// empties out is removed from the map entirely.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

// RateLimitOption configures a RateLimitMemoryStore.
type RateLimitOption func(*RateLimitMemoryStore)

// WithRateLimitClock overrides the store's clock. Intended for tests.
func WithRateLimitClock(now func() time.Time) RateLimitOption {
	return func(s *RateLimitMemoryStore) {
		s.now = now
	}
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore(opts ...RateLimitOption) *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Take checks and records atomically under the store mutex, so two
// concurrent calls for the same key cannot both claim the last slot.
func (s *RateLimitMemoryStore) Take(_ context.Context, key string, limit int64, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-window)

	timestamps := s.requests[key]
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	if int64(len(valid)) >= limit {
		// Rejected requests are not recorded.
		if len(valid) == 0 {
			delete(s.requests, key)
		} else {
			s.requests[key] = valid
		}

		return false, nil
	}

	valid = append(valid, now)
	s.requests[key] = valid

	return true, nil
}
