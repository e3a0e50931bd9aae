package clickhouse

import (
	"context"
	"fmt"

	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/storage"
)

// NotificationArchiveStore implements storage.NotificationArchive using
// ClickHouse. MergeTree does not enforce uniqueness; duplicate records
// are acceptable for an analytical archive.
type NotificationArchiveStore struct {
	conn *Conn
}

// NewNotificationArchiveStore creates a new NotificationArchiveStore.
func NewNotificationArchiveStore(conn *Conn) *NotificationArchiveStore {
	return &NotificationArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.NotificationArchive = (*NotificationArchiveStore)(nil)

// Archive appends one candidate record.
func (s *NotificationArchiveStore) Archive(ctx context.Context, rec *domain.NotificationRecord) error {
	if rec == nil || rec.Signature == "" {
		return storage.ErrInvalidInput
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO raw_notifications (
			signature, slot, variant, logs, received_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		rec.Signature,
		rec.Slot,
		string(rec.Variant),
		rec.Logs,
		uint64(rec.ReceivedAt),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySignature retrieves archived records for a signature, ordered by
// received_at ASC. Used by analysis tooling and tests.
func (s *NotificationArchiveStore) GetBySignature(ctx context.Context, signature string) ([]*domain.NotificationRecord, error) {
	query := `
		SELECT signature, slot, variant, logs, received_at
		FROM raw_notifications
		WHERE signature = ?
		ORDER BY received_at ASC
	`

	rows, err := s.conn.Query(ctx, query, signature)
	if err != nil {
		return nil, fmt.Errorf("query by signature: %w", err)
	}
	defer rows.Close()

	var recs []*domain.NotificationRecord
	for rows.Next() {
		var rec domain.NotificationRecord
		var variantStr string
		var receivedAt uint64

		err := rows.Scan(&rec.Signature, &rec.Slot, &variantStr, &rec.Logs, &receivedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}

		rec.Variant = domain.PoolVariant(variantStr)
		rec.ReceivedAt = int64(receivedAt)
		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return recs, nil
}
