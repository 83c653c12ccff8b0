package domain

import "time"

// Event types
const (
	EventTypeTransactionsChanged = "transactions.changed"
)

// TransactionsChangedEvent is emitted after every successful write of the
// transaction list. It carries no data; observers re-read the store.
type TransactionsChangedEvent struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTransactionsChangedEvent stamps a change notification with now.
func NewTransactionsChangedEvent(now time.Time) TransactionsChangedEvent {
	return TransactionsChangedEvent{
		Type:       EventTypeTransactionsChanged,
		OccurredAt: now.UTC(),
	}
}
