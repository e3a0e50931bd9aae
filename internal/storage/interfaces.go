// Package storage defines the persistence contracts for the monitor:
// a Postgres journal of qualified pool events and a ClickHouse archive
// of raw creation candidates.
package storage

import (
	"context"

	"solana-pool-watch/internal/domain"
)

// PoolEventStore journals qualified pool-creation events.
type PoolEventStore interface {
	// Insert adds a qualified event. Returns ErrDuplicateKey if the
	// signature was already journaled.
	Insert(ctx context.Context, e *domain.PoolCreationEvent) error

	// GetBySignature retrieves an event by its transaction signature.
	// Returns ErrNotFound if not exists.
	GetBySignature(ctx context.Context, signature string) (*domain.PoolCreationEvent, error)

	// GetByVariant retrieves all events of a variant, ordered by slot ASC.
	GetByVariant(ctx context.Context, variant domain.PoolVariant) ([]*domain.PoolCreationEvent, error)

	// GetByTimeRange retrieves events with timestamp in [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.PoolCreationEvent, error)
}

// NotificationArchive stores every classified creation candidate for
// offline analysis, qualified or not.
type NotificationArchive interface {
	// Archive appends one candidate record. Duplicates are permitted;
	// the archive is analytical, not a source of truth.
	Archive(ctx context.Context, rec *domain.NotificationRecord) error
}
