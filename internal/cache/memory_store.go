package cache

import (
	"context"
	"sync"
)

// MemoryCountStore is an in-process CountStore used when Redis is not
// configured, and by tests. No TTL: entries live until invalidated.
type MemoryCountStore struct {
	mu     sync.RWMutex
	counts map[uint]int64
}

// NewMemoryCountStore creates an empty in-memory count store.
func NewMemoryCountStore() *MemoryCountStore {
	return &MemoryCountStore{counts: make(map[uint]int64)}
}

func (s *MemoryCountStore) GetFollowersCount(ctx context.Context, userID uint) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count, ok := s.counts[userID]
	return count, ok, nil
}

func (s *MemoryCountStore) SetFollowersCount(ctx context.Context, userID uint, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[userID] = count
	return nil
}

func (s *MemoryCountStore) Invalidate(ctx context.Context, userIDs ...uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range userIDs {
		delete(s.counts, id)
	}
	return nil
}

func (s *MemoryCountStore) Close() error {
	return nil
}

// Ensure interface is satisfied at compile time.
var _ CountStore = (*MemoryCountStore)(nil)
