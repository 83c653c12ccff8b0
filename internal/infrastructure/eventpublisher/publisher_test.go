package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/domain"
)

func testEvent() domain.TransactionsChangedEvent {
	return domain.NewTransactionsChangedEvent(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus(Config{Logger: zerolog.Nop()})

	var order []string
	bus.Subscribe("first", PublisherFunc(func(ctx context.Context, e domain.TransactionsChangedEvent) error {
		order = append(order, "first")
		return nil
	}))
	bus.Subscribe("second", PublisherFunc(func(ctx context.Context, e domain.TransactionsChangedEvent) error {
		order = append(order, "second")
		return nil
	}))

	if err := bus.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if strings.Join(order, ",") != "first,second" {
		t.Fatalf("unexpected delivery order %v", order)
	}
}

func TestBusContinuesAfterObserverFailure(t *testing.T) {
	rec := &stubRecorder{}
	bus := NewBus(Config{Logger: zerolog.Nop(), Recorder: rec})

	delivered := 0
	bus.Subscribe("broken", PublisherFunc(func(ctx context.Context, e domain.TransactionsChangedEvent) error {
		return errors.New("fail")
	}))
	bus.Subscribe("panicky", PublisherFunc(func(ctx context.Context, e domain.TransactionsChangedEvent) error {
		panic("boom")
	}))
	bus.Subscribe("healthy", PublisherFunc(func(ctx context.Context, e domain.TransactionsChangedEvent) error {
		delivered++
		return nil
	}))

	if err := bus.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish returned error: %v", err)
	}

	if delivered != 1 {
		t.Fatalf("expected healthy observer to run once, got %d", delivered)
	}
	if strings.Join(rec.failed, ",") != "broken,panicky" {
		t.Fatalf("expected two recorded failures, got %v", rec.failed)
	}
	if rec.delivered != 1 {
		t.Fatalf("expected one recorded delivery, got %d", rec.delivered)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(Config{Logger: zerolog.Nop()})

	calls := 0
	unsubscribe := bus.Subscribe("counter", PublisherFunc(func(ctx context.Context, e domain.TransactionsChangedEvent) error {
		calls++
		return nil
	}))
	bus.Subscribe("other", NewLogPublisher(zerolog.Nop()))

	_ = bus.Publish(context.Background(), testEvent())
	unsubscribe()
	_ = bus.Publish(context.Background(), testEvent())

	if calls != 1 {
		t.Fatalf("expected one call before unsubscribe, got %d", calls)
	}
	if bus.Len() != 1 {
		t.Fatalf("expected one remaining subscriber, got %d", bus.Len())
	}
}

func TestLogPublisherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	if err := p.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if !strings.Contains(buf.String(), domain.EventTypeTransactionsChanged) {
		t.Fatalf("expected event type in log output, got %q", buf.String())
	}
}

type stubRecorder struct {
	delivered int
	failed    []string
}

func (s *stubRecorder) NotificationDelivered() {
	s.delivered++
}

func (s *stubRecorder) NotificationFailed(observer string) {
	s.failed = append(s.failed, observer)
}
