package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/domain"
)

// EventBus implements domain.EventBus over Redis Pub/Sub on a single shared
// channel.
type EventBus struct {
	rdb     *goredis.Client
	channel string
}

func NewEventBus(client *Client, channel string) *EventBus {
	return &EventBus{rdb: client.rdb, channel: channel}
}

// Publish sends an event on the shared channel.
func (b *EventBus) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

type subscription struct {
	sub    *goredis.PubSub
	ch     chan []byte
	cancel context.CancelFunc
}

func (s *subscription) Events() <-chan []byte { return s.ch }

func (s *subscription) Close() error {
	s.cancel()
	return s.sub.Close()
}

// Subscribe opens a subscription on the shared channel. The confirmation
// round trip surfaces connectivity problems immediately, so a dead Redis
// fails at startup instead of during the first event.
func (b *EventBus) Subscribe(ctx context.Context) (domain.Subscription, error) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to %q: %w", b.channel, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := &subscription{
		sub:    sub,
		ch:     make(chan []byte, 64),
		cancel: cancel,
	}

	go func() {
		defer close(s.ch)
		msgCh := sub.Channel()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				select {
				case s.ch <- []byte(msg.Payload):
				default:
					slog.Warn("Dropping bus message, receiver too slow", "channel", b.channel)
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return s, nil
}
