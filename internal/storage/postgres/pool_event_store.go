package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/storage"
)

// PoolEventStore implements storage.PoolEventStore using PostgreSQL.
type PoolEventStore struct {
	pool *Pool
}

// NewPoolEventStore creates a new PoolEventStore.
func NewPoolEventStore(pool *Pool) *PoolEventStore {
	return &PoolEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolEventStore = (*PoolEventStore)(nil)

// Insert adds a qualified event. Returns ErrDuplicateKey if the
// signature was already journaled.
func (s *PoolEventStore) Insert(ctx context.Context, e *domain.PoolCreationEvent) error {
	if e == nil || e.Signature == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pool_events (
			signature, pool, token, holder_count, buy_count, event_timestamp, slot, variant
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		e.Signature,
		e.Pool,
		e.Token,
		int64(e.HolderCount),
		int64(e.BuyCount),
		e.Timestamp,
		int64(e.Slot),
		string(e.Variant),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pool event: %w", err)
	}
	return nil
}

// GetBySignature retrieves an event by signature. Returns ErrNotFound
// if not exists.
func (s *PoolEventStore) GetBySignature(ctx context.Context, signature string) (*domain.PoolCreationEvent, error) {
	query := `
		SELECT signature, pool, token, holder_count, buy_count, event_timestamp, slot, variant
		FROM pool_events
		WHERE signature = $1
	`

	row := s.pool.QueryRow(ctx, query, signature)
	e, err := scanPoolEvent(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool event by signature: %w", err)
	}
	return e, nil
}

// GetByVariant retrieves all events of a variant, ordered by slot ASC.
func (s *PoolEventStore) GetByVariant(ctx context.Context, variant domain.PoolVariant) ([]*domain.PoolCreationEvent, error) {
	query := `
		SELECT signature, pool, token, holder_count, buy_count, event_timestamp, slot, variant
		FROM pool_events
		WHERE variant = $1
		ORDER BY slot ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, string(variant))
	if err != nil {
		return nil, fmt.Errorf("get pool events by variant: %w", err)
	}
	defer rows.Close()

	return scanPoolEvents(rows)
}

// GetByTimeRange retrieves events with timestamp in [start, end]
// (inclusive), ordered by timestamp ASC.
func (s *PoolEventStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.PoolCreationEvent, error) {
	query := `
		SELECT signature, pool, token, holder_count, buy_count, event_timestamp, slot, variant
		FROM pool_events
		WHERE event_timestamp >= $1 AND event_timestamp <= $2
		ORDER BY event_timestamp ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get pool events by time range: %w", err)
	}
	defer rows.Close()

	return scanPoolEvents(rows)
}

// scanPoolEvent scans a single row into a PoolCreationEvent.
func scanPoolEvent(row pgx.Row) (*domain.PoolCreationEvent, error) {
	var e domain.PoolCreationEvent
	var holderCount, buyCount, slot int64
	var variantStr string

	err := row.Scan(
		&e.Signature,
		&e.Pool,
		&e.Token,
		&holderCount,
		&buyCount,
		&e.Timestamp,
		&slot,
		&variantStr,
	)
	if err != nil {
		return nil, err
	}

	e.HolderCount = uint64(holderCount)
	e.BuyCount = uint64(buyCount)
	e.Slot = uint64(slot)
	e.Variant = domain.PoolVariant(variantStr)
	return &e, nil
}

// scanPoolEvents scans multiple rows into a slice of PoolCreationEvent.
func scanPoolEvents(rows pgx.Rows) ([]*domain.PoolCreationEvent, error) {
	var events []*domain.PoolCreationEvent

	for rows.Next() {
		e, err := scanPoolEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pool event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool event rows: %w", err)
	}

	return events, nil
}
