package results

import (
	"context"
	"sync"
)

const defaultMaxKept = 1000

// MemoryStore keeps the most recent results in process
type MemoryStore struct {
	mu      sync.RWMutex
	results []Result // oldest first
	maxKept int
}

// NewMemoryStore creates a store holding at most maxKept results
func NewMemoryStore(maxKept int) *MemoryStore {
	if maxKept <= 0 {
		maxKept = defaultMaxKept
	}

	return &MemoryStore{maxKept: maxKept}
}

// SaveResult appends the result, dropping the oldest past capacity
func (s *MemoryStore) SaveResult(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, r)
	if over := len(s.results) - s.maxKept; over > 0 {
		s.results = append([]Result(nil), s.results[over:]...)
	}

	return nil
}

// Recent returns up to limit results, newest first
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = normalizeLimit(limit)
	out := make([]Result, 0, limit)
	for i := len(s.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.results[i])
	}

	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
