package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/gobudget/internal/domain"
)

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu     sync.RWMutex
	txns   []domain.Transaction
	writes int

	ReadAllFunc  func(ctx context.Context) []domain.Transaction
	WriteAllFunc func(ctx context.Context, txns []domain.Transaction) error
}

func NewMockTransactionRepository(seed ...domain.Transaction) *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: append([]domain.Transaction(nil), seed...),
	}
}

func (m *MockTransactionRepository) ReadAll(ctx context.Context) []domain.Transaction {
	if m.ReadAllFunc != nil {
		return m.ReadAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Transaction{}, m.txns...)
}

func (m *MockTransactionRepository) WriteAll(ctx context.Context, txns []domain.Transaction) error {
	if m.WriteAllFunc != nil {
		return m.WriteAllFunc(ctx, txns)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = append([]domain.Transaction{}, txns...)
	m.writes++
	return nil
}

// Writes reports how many successful WriteAll calls were stored.
func (m *MockTransactionRepository) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// MockKeyValueStore is an in-memory KeyValueStore.
type MockKeyValueStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte) error
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		data: make(map[string][]byte),
	}
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, domain.ErrKeyNotFound
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Put seeds raw bytes under key.
func (m *MockKeyValueStore) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []domain.TransactionsChangedEvent

	PublishFunc func(ctx context.Context, event domain.TransactionsChangedEvent) error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.TransactionsChangedEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

// Events returns a copy of everything published so far.
func (m *MockEventPublisher) Events() []domain.TransactionsChangedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TransactionsChangedEvent(nil), m.events...)
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockMetrics counts recorded observations.
type MockMetrics struct {
	mu          sync.Mutex
	Added       map[domain.TransactionType]int
	Deleted     int
	ReadFailure map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Added:       make(map[domain.TransactionType]int),
		ReadFailure: make(map[string]int),
	}
}

func (m *MockMetrics) TransactionAdded(txType domain.TransactionType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Added[txType]++
}

func (m *MockMetrics) TransactionDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted++
}

func (m *MockMetrics) StoreReadFailed(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadFailure[reason]++
}
