package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobudget/internal/domain"
)

// ChangePublisher forwards change notifications to a Redis pub/sub channel
// so other processes sharing the store can refresh.
type ChangePublisher struct {
	client  *redis.Client
	channel string
}

// NewChangePublisher creates a new ChangePublisher.
func NewChangePublisher(client *redis.Client, channel string) *ChangePublisher {
	return &ChangePublisher{
		client:  client,
		channel: channel,
	}
}

// Publish sends the event as JSON.
func (p *ChangePublisher) Publish(ctx context.Context, event domain.TransactionsChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// Listen relays events published by other processes to handle until ctx is
// done.
func (p *ChangePublisher) Listen(ctx context.Context, handle func(context.Context, domain.TransactionsChangedEvent) error) error {
	sub := p.client.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", p.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.TransactionsChangedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if err := handle(ctx, event); err != nil {
				return err
			}
		}
	}
}
