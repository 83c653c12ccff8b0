package usecase

import (
	"context"
	"time"

	"github.com/iho/gobudget/internal/domain"
)

// TransactionRepository is the storage port for the transaction list. The
// whole list is read and replaced at once.
type TransactionRepository interface {
	// ReadAll returns the list in insertion order. It never fails; absent or
	// unreadable data yields an empty list.
	ReadAll(ctx context.Context) []domain.Transaction
	// WriteAll replaces the persisted list in a single write and notifies
	// observers once it succeeds.
	WriteAll(ctx context.Context, txns []domain.Transaction) error
}

// KeyValueStore is the raw backend under a TransactionRepository.
type KeyValueStore interface {
	// Get returns domain.ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// HealthChecker reports whether a backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher delivers change notifications.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.TransactionsChangedEvent) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time.
type Clock func() time.Time

// ReportCache holds computed reports between writes.
type ReportCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Flush()
}

// MetricsRecorder observes use case outcomes.
type MetricsRecorder interface {
	TransactionAdded(txType domain.TransactionType)
	TransactionDeleted()
	StoreReadFailed(reason string)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) TransactionAdded(domain.TransactionType) {}
func (NopMetrics) TransactionDeleted()                     {}
func (NopMetrics) StoreReadFailed(string)                  {}
