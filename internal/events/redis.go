package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBus distributes session events over Redis pub/sub so WebSocket
// subscribers can be attached to any replica of the server.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(ctx context.Context, addr, password string, db int) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events.NewRedisBus: ping: %w", err)
	}

	return &RedisBus{client: client}, nil
}

func (b *RedisBus) Close() error {
	if err := b.client.Close(); err != nil {
		return fmt.Errorf("events.RedisBus.Close: %w", err)
	}
	return nil
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events.RedisBus.Publish: marshal: %w", err)
	}
	if err := b.client.Publish(ctx, SessionChannel(event.SessionID), payload).Err(); err != nil {
		return fmt.Errorf("events.RedisBus.Publish: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, sessionID string) (<-chan Event, func(), error) {
	sub := b.client.Subscribe(ctx, SessionChannel(sessionID))

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("events.RedisBus.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan Event, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping undecodable event")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// SessionChannel returns the Redis channel name for one session's events.
func SessionChannel(sessionID string) string {
	return "session:" + sessionID
}
