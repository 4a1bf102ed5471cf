// Package memory provides an in-process ReplayStore for tests and
// single-instance deployments. Multi-instance deployments must use the
// postgres store so the claim is atomic across processes.
package memory

import (
	"context"
	"sync"
	"time"

	"qrpass/internal/domain"
)

type ReplayStore struct {
	mu     sync.Mutex
	claims map[string]time.Time
}

func NewReplayStore() *ReplayStore {
	return &ReplayStore{
		claims: make(map[string]time.Time),
	}
}

func (s *ReplayStore) Seen(ctx context.Context, contentHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.claims[contentHash]
	return ok, nil
}

// Claim is check-and-insert under a single lock, so concurrent claims of
// the same hash admit exactly one winner.
func (s *ReplayStore) Claim(ctx context.Context, contentHash string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[contentHash]; ok {
		return domain.NewReplayDetectedError()
	}
	s.claims[contentHash] = at
	return nil
}

func (s *ReplayStore) Release(ctx context.Context, contentHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, contentHash)
	return nil
}

func (s *ReplayStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for hash, at := range s.claims {
		if at.Before(cutoff) {
			delete(s.claims, hash)
			purged++
		}
	}
	return purged, nil
}

// Len reports the number of live claims. Used by tests.
func (s *ReplayStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}
