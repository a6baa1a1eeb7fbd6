package countstore

import (
	"context"
	"sync"
	"time"
)

type MemCountStore struct {
	mu             sync.RWMutex
	Counts         map[string]int
	DistinctCounts map[string]map[string]bool
}

var _ CountStore = (*MemCountStore)(nil)

func NewMemCountStore() *MemCountStore {
	return &MemCountStore{
		Counts:         make(map[string]int),
		DistinctCounts: make(map[string]map[string]bool),
	}
}

func (s *MemCountStore) GetCount(ctx context.Context, name, val, period string, at time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Counts[periodBucket(name, val, period, at)], nil
}

func (s *MemCountStore) IncrementBy(ctx context.Context, name, val string, at time.Time, n int) error {
	if n == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range allPeriods {
		s.Counts[periodBucket(name, val, p, at)] += n
	}
	return nil
}

func (s *MemCountStore) GetCountDistinct(ctx context.Context, name, bucket, period string, at time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.DistinctCounts[periodBucket(name, bucket, period, at)]), nil
}

func (s *MemCountStore) IncrementDistinct(ctx context.Context, name, bucket, val string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range allPeriods {
		k := periodBucket(name, bucket, p, at)
		m, ok := s.DistinctCounts[k]
		if !ok {
			m = make(map[string]bool)
			s.DistinctCounts[k] = m
		}
		m[val] = true
	}
	return nil
}
