package memory

import (
	"context"
	"sync"

	"solana-pool-watch/internal/domain"
	"solana-pool-watch/internal/storage"
)

// NotificationArchive is an in-memory implementation of
// storage.NotificationArchive.
type NotificationArchive struct {
	mu   sync.RWMutex
	recs []*domain.NotificationRecord
}

// NewNotificationArchive creates a new in-memory archive.
func NewNotificationArchive() *NotificationArchive {
	return &NotificationArchive{}
}

// Compile-time interface check.
var _ storage.NotificationArchive = (*NotificationArchive)(nil)

// Archive appends one candidate record.
func (a *NotificationArchive) Archive(_ context.Context, rec *domain.NotificationRecord) error {
	if rec == nil || rec.Signature == "" {
		return storage.ErrInvalidInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	recCopy := *rec
	recCopy.Logs = append([]string(nil), rec.Logs...)
	a.recs = append(a.recs, &recCopy)
	return nil
}

// All returns a snapshot of archived records in insertion order.
func (a *NotificationArchive) All() []*domain.NotificationRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*domain.NotificationRecord, len(a.recs))
	copy(out, a.recs)
	return out
}
