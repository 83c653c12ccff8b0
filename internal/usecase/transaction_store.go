package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/domain"
)

// Reasons reported to MetricsRecorder.StoreReadFailed.
const (
	ReadFailureBackend = "backend"
	ReadFailureCorrupt = "corrupt"
)

// TransactionStore persists the transaction list as one JSON array under a
// single key of a KeyValueStore.
type TransactionStore struct {
	kv        KeyValueStore
	key       string
	publisher EventPublisher
	logger    zerolog.Logger
	metrics   MetricsRecorder
	now       Clock
}

// StoreConfig configures a TransactionStore.
type StoreConfig struct {
	KV        KeyValueStore
	Key       string
	Publisher EventPublisher
	Logger    zerolog.Logger
	Metrics   MetricsRecorder
	Clock     Clock
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(cfg StoreConfig) *TransactionStore {
	if cfg.Key == "" {
		cfg.Key = DefaultStoreKey
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NopMetrics{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &TransactionStore{
		kv:        cfg.KV,
		key:       cfg.Key,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       cfg.Clock,
	}
}

// ReadAll loads and normalizes the persisted list. Any failure yields an
// empty list.
func (s *TransactionStore) ReadAll(ctx context.Context) []domain.Transaction {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Str("key", s.key).Msg("transaction store read failed")
			s.metrics.StoreReadFailed(ReadFailureBackend)
		}
		return []domain.Transaction{}
	}

	var raws []domain.RawTransaction
	if err := json.Unmarshal(data, &raws); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Int("bytes", len(data)).Msg("transaction store holds malformed data")
		s.metrics.StoreReadFailed(ReadFailureCorrupt)
		return []domain.Transaction{}
	}

	return domain.NormalizeAll(raws)
}

// WriteAll replaces the persisted list and then publishes one change event.
// Nothing is published when the write fails.
func (s *TransactionStore) WriteAll(ctx context.Context, txns []domain.Transaction) error {
	raws := make([]domain.RawTransaction, 0, len(txns))
	for _, t := range txns {
		raws = append(raws, t.ToRaw())
	}

	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}

	if s.publisher != nil {
		event := domain.NewTransactionsChangedEvent(s.now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error().Err(err).Str("event_type", event.Type).Msg("change notification failed")
		}
	}

	return nil
}
