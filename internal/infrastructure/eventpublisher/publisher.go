package eventpublisher

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/domain"
)

// Publisher receives change notifications. It is satisfied by every
// observer as well as by the Bus itself.
type Publisher interface {
	Publish(ctx context.Context, event domain.TransactionsChangedEvent) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event domain.TransactionsChangedEvent) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, event domain.TransactionsChangedEvent) error {
	return f(ctx, event)
}

// Recorder observes delivery outcomes.
type Recorder interface {
	NotificationDelivered()
	NotificationFailed(observer string)
}

type nopRecorder struct{}

func (nopRecorder) NotificationDelivered()    {}
func (nopRecorder) NotificationFailed(string) {}

type subscription struct {
	id        int
	name      string
	publisher Publisher
}

// Bus fans change notifications out to subscribers synchronously, in
// subscription order. A failing subscriber is logged and skipped.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int

	logger   zerolog.Logger
	recorder Recorder
}

// Config for Bus.
type Config struct {
	Logger   zerolog.Logger
	Recorder Recorder
}

// NewBus creates a new Bus.
func NewBus(cfg Config) *Bus {
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	return &Bus{
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
	}
}

// Subscribe registers p under name and returns a function that removes it.
func (b *Bus) Subscribe(name string, p Publisher) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, publisher: p})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every subscriber. It always returns nil so a
// write is never failed by its observers.
func (b *Bus) Publish(ctx context.Context, event domain.TransactionsChangedEvent) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := b.deliver(ctx, s, event); err != nil {
			b.logger.Error().
				Err(err).
				Str("observer", s.name).
				Str("event_type", event.Type).
				Msg("observer failed to handle event")
			b.recorder.NotificationFailed(s.name)
			// Continue delivering to the remaining observers
			continue
		}
		b.recorder.NotificationDelivered()
	}

	return nil
}

func (b *Bus) deliver(ctx context.Context, s subscription, event domain.TransactionsChangedEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()
	return s.publisher.Publish(ctx, event)
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event domain.TransactionsChangedEvent) error {
	p.logger.Info().
		Str("event_type", event.Type).
		Time("occurred_at", event.OccurredAt).
		Msg("transactions changed")

	return nil
}
