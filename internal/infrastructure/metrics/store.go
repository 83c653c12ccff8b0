package metrics

import (
	"context"
	"time"

	"github.com/iho/gobudget/internal/usecase"
)

// InstrumentedStore records latency and write outcomes of a KeyValueStore.
type InstrumentedStore struct {
	next    usecase.KeyValueStore
	backend string
	m       *Metrics
}

// InstrumentStore wraps kv so every call is observed under backend.
func (m *Metrics) InstrumentStore(kv usecase.KeyValueStore, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: kv, backend: backend, m: m}
}

// Get implements usecase.KeyValueStore.
func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	s.m.StoreDuration.WithLabelValues(s.backend, "get").Observe(time.Since(start).Seconds())
	return value, err
}

// Set implements usecase.KeyValueStore.
func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.m.StoreDuration.WithLabelValues(s.backend, "set").Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	s.m.StoreWrites.WithLabelValues(s.backend, status).Inc()
	return err
}

// Ping forwards to the wrapped store when it can report health.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	if hc, ok := s.next.(usecase.HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}
