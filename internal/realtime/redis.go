package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisChannel implements Channel over Redis pub/sub.
type RedisChannel struct {
	client *redis.Client
	logger *zap.Logger

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisChannel wraps an existing go-redis client.
func NewRedisChannel(client *redis.Client, logger *zap.Logger) *RedisChannel {
	return &RedisChannel{client: client, logger: logger}
}

// Publish marshals payload to JSON and publishes it on topic.
func (c *RedisChannel) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, topic, body).Err()
}

// Subscribe consumes messages on topic until ctx is cancelled. The handler
// runs on a dedicated goroutine per subscription.
func (c *RedisChannel) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	sub := c.client.Subscribe(ctx, topic)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(msg.Channel, []byte(msg.Payload))
			}
		}
	}()
	return nil
}

// Close tears down every open subscription.
func (c *RedisChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		if err := sub.Close(); err != nil {
			c.logger.Warn("closing subscription", zap.Error(err))
		}
	}
	c.subs = nil
	return nil
}
