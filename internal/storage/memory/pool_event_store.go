// Package memory provides in-memory store implementations for tests
// and for running the monitor without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/storage"
)

// PoolEventStore is an in-memory implementation of storage.PoolEventStore.
type PoolEventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PoolCreationEvent // keyed by signature
}

// NewPoolEventStore creates a new in-memory pool event store.
func NewPoolEventStore() *PoolEventStore {
	return &PoolEventStore{
		data: make(map[string]*domain.PoolCreationEvent),
	}
}

// Compile-time interface check.
var _ storage.PoolEventStore = (*PoolEventStore)(nil)

// Insert adds a qualified event. Returns ErrDuplicateKey if the
// signature was already journaled.
func (s *PoolEventStore) Insert(_ context.Context, e *domain.PoolCreationEvent) error {
	if e == nil || e.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	eventCopy := *e
	s.data[e.Signature] = &eventCopy
	return nil
}

// GetBySignature retrieves an event by signature. Returns ErrNotFound
// if not exists.
func (s *PoolEventStore) GetBySignature(_ context.Context, signature string) (*domain.PoolCreationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[signature]
	if !exists {
		return nil, storage.ErrNotFound
	}

	eventCopy := *e
	return &eventCopy, nil
}

// GetByVariant retrieves all events of a variant, ordered by slot ASC.
func (s *PoolEventStore) GetByVariant(_ context.Context, variant domain.PoolVariant) ([]*domain.PoolCreationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PoolCreationEvent
	for _, e := range s.data {
		if e.Variant == variant {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Slot < result[j].Slot
	})

	return result, nil
}

// GetByTimeRange retrieves events with timestamp in [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *PoolEventStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.PoolCreationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PoolCreationEvent
	for _, e := range s.data {
		if e.Timestamp >= start && e.Timestamp <= end {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].Signature < result[j].Signature
	})

	return result, nil
}
